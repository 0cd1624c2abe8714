package tests

import (
	"testing"

	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

const contractModule = `<?xml version="1.0" encoding="utf-8"?>
<config>
	<moduleName>Contract</moduleName>
	<requiredInstallFiles>
		<file source="always.esp" />
	</requiredInstallFiles>
	<installSteps order="Explicit">
		<installStep name="Only">
			<optionalFileGroups order="Explicit">
				<group name="Pick" type="SelectExactlyOne">
					<plugins order="Explicit">
						<plugin name="First">
							<description>first</description>
							<conditionFlags><flag name="Picked">first</flag></conditionFlags>
							<typeDescriptor><type name="Recommended"/></typeDescriptor>
						</plugin>
						<plugin name="Second">
							<description>second</description>
							<files><file source="second.esp" priority="3"/></files>
							<typeDescriptor><type name="Optional"/></typeDescriptor>
						</plugin>
					</plugins>
				</group>
			</optionalFileGroups>
		</installStep>
	</installSteps>
</config>
`

const contractInfo = `<fomod><Name>Contract</Name><Version>1.2</Version></fomod>`

// DocumentParserContractTest is a reusable test suite that verifies if a parser complies with ports.DocumentParser.
func DocumentParserContractTest(t *testing.T, parser ports.DocumentParser) {
	t.Helper()

	// 1. ParseModule (Success)
	t.Run("ParseModule_Success", func(t *testing.T) {
		doc, err := parser.ParseModule([]byte(contractModule))
		if err != nil {
			t.Fatalf("unexpected error parsing module: %v", err)
		}
		if doc.ModuleName != "Contract" {
			t.Errorf("module name mismatch. got %q, want %q", doc.ModuleName, "Contract")
		}
		if len(doc.Installs) != 1 || doc.Installs[0].Source != "always.esp" {
			t.Errorf("unexpected required installs: %+v", doc.Installs)
		}
		if len(doc.Steps) != 1 || len(doc.Steps[0].Groups) != 1 {
			t.Fatalf("unexpected step layout: %+v", doc.Steps)
		}

		group := doc.Steps[0].Groups[0]
		if group.Behavior != domain.SelectExactlyOne {
			t.Errorf("behavior mismatch. got %q", group.Behavior)
		}
		if len(group.Options) != 2 || group.Options[0].Name != "First" || group.Options[1].Name != "Second" {
			t.Fatalf("options must keep source order: %+v", group.Options)
		}
		if group.Options[0].Type.Default != domain.TypeRecommended {
			t.Errorf("type mismatch. got %q", group.Options[0].Type.Default)
		}
		if got := group.Options[1].Installs; len(got) != 1 || got[0].Rank() != 3 {
			t.Errorf("unexpected option installs: %+v", got)
		}
	})

	// 2. ParseModule (Malformed)
	t.Run("ParseModule_Malformed", func(t *testing.T) {
		_, err := parser.ParseModule([]byte("<config><moduleName>"))
		if !domain.IsConfigurationError(err) {
			t.Errorf("expected a configuration error, got %v", err)
		}
	})

	// 3. ParseModule (Missing name)
	t.Run("ParseModule_MissingName", func(t *testing.T) {
		_, err := parser.ParseModule([]byte(`<config><requiredInstallFiles><file source="a"/></requiredInstallFiles></config>`))
		if !domain.IsConfigurationError(err) {
			t.Errorf("expected a configuration error, got %v", err)
		}
	})

	// 4. ParseInfo
	t.Run("ParseInfo", func(t *testing.T) {
		info, err := parser.ParseInfo([]byte(contractInfo))
		if err != nil {
			t.Fatalf("unexpected error parsing info: %v", err)
		}
		if info.Name != "Contract" || info.Version != "1.2" {
			t.Errorf("unexpected info: %+v", info)
		}
	})
}
