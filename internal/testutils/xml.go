package testutils

// ModuleConfigXML is a module configuration exercising every construct the
// parser understands.
const ModuleConfigXML = `<?xml version="1.0" encoding="utf-8"?>
<config xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://qconsulting.ca/fo3/ModConfig5.0.xsd">
	<moduleName>Sample Mod</moduleName>
	<moduleImage path="fomod\images\main.png" />
	<moduleDependencies operator="And">
		<fileDependency file="Skyrim.esm" state="Active" />
	</moduleDependencies>
	<requiredInstallFiles>
		<file source="readme.txt" destination="docs\readme.txt" />
		<folder source="Core" destination="" />
	</requiredInstallFiles>
	<installSteps order="Explicit">
		<installStep name="Core">
			<optionalFileGroups order="Explicit">
				<group name="Essentials" type="SelectAll">
					<plugins order="Explicit">
						<plugin name="Core Files">
							<description>  The core files.
							Always installed.  </description>
							<image path="fomod\images\core.png" />
							<conditionFlags>
								<flag name="HasCore">true</flag>
							</conditionFlags>
							<typeDescriptor>
								<type name="Required" />
							</typeDescriptor>
						</plugin>
					</plugins>
				</group>
			</optionalFileGroups>
		</installStep>
		<installStep name="Extras">
			<visible>
				<flagDependency flag="HasCore" value="true" />
			</visible>
			<optionalFileGroups order="Explicit">
				<group name="Addons" type="SelectAny">
					<plugins order="Explicit">
						<plugin name="HD Textures">
							<description>Bigger textures.</description>
							<files>
								<file source="hd\textures.bsa" destination="textures.bsa" priority="5" />
							</files>
							<conditionFlags>
								<flag name="Textures">hd</flag>
							</conditionFlags>
							<typeDescriptor>
								<dependencyType>
									<defaultType name="Optional" />
									<patterns>
										<pattern>
											<dependencies operator="Or">
												<fileDependency file="HighRes.esp" state="Active" />
												<dependencies operator="And">
													<flagDependency flag="HasCore" value="true" />
													<gameDependency version="1.5" />
												</dependencies>
											</dependencies>
											<type name="Recommended" />
										</pattern>
									</patterns>
								</dependencyType>
							</typeDescriptor>
						</plugin>
						<plugin name="Patch">
							<description>A patch.</description>
							<files>
								<file source="patch\patch.esp" />
							</files>
							<typeDescriptor>
								<type name="Optional" />
							</typeDescriptor>
						</plugin>
					</plugins>
				</group>
			</optionalFileGroups>
		</installStep>
	</installSteps>
	<conditionalFileInstalls>
		<patterns>
			<pattern>
				<dependencies operator="And">
					<flagDependency flag="Textures" value="hd" />
				</dependencies>
				<files>
					<folder source="hd\extra" destination="textures\extra" priority="2" />
				</files>
			</pattern>
		</patterns>
	</conditionalFileInstalls>
</config>
`

// InfoXML is the package metadata matching ModuleConfigXML.
const InfoXML = `<?xml version="1.0" encoding="utf-8"?>
<fomod>
	<Name>Sample Mod</Name>
	<Author>Someone</Author>
	<Version MachineVersion="2.1.0">2.1</Version>
	<Website>https://example.com/sample</Website>
	<Description>A sample module.</Description>
	<Groups>
		<element>Armour</element>
		<element>Textures</element>
	</Groups>
</fomod>
`
