package compiler

import "encoding/xml"

// Wire shapes of fomod/ModuleConfig.xml (schema 5.0) and fomod/info.xml.
// Elements the engine has no use for are simply not declared.

type xmlConfig struct {
	XMLName                 xml.Name        `xml:"config"`
	ModuleName              string          `xml:"moduleName"`
	ModuleImage             *xmlImage       `xml:"moduleImage"`
	ModuleDependencies      *xmlComposite   `xml:"moduleDependencies"`
	RequiredInstallFiles    *xmlFileList    `xml:"requiredInstallFiles"`
	InstallSteps            *xmlSteps       `xml:"installSteps"`
	ConditionalFileInstalls *xmlConditional `xml:"conditionalFileInstalls"`
}

type xmlImage struct {
	Path string `xml:"path,attr"`
}

// xmlComposite is a compositeDependency: an operator over an ordered mix of
// leaf and nested dependencies.
type xmlComposite struct {
	Operator string       `xml:"operator,attr"`
	Children []xmlDepNode `xml:",any"`
}

// xmlDepNode captures any dependency element; XMLName tells which one.
type xmlDepNode struct {
	XMLName  xml.Name
	File     string       `xml:"file,attr"`
	State    string       `xml:"state,attr"`
	Flag     string       `xml:"flag,attr"`
	Value    string       `xml:"value,attr"`
	Version  string       `xml:"version,attr"`
	Operator string       `xml:"operator,attr"`
	Children []xmlDepNode `xml:",any"`
}

// xmlFileList keeps <file> and <folder> entries in document order.
type xmlFileList struct {
	Items []xmlFileItem `xml:",any"`
}

type xmlFileItem struct {
	XMLName     xml.Name
	Source      string  `xml:"source,attr"`
	Destination *string `xml:"destination,attr"`
	Priority    string  `xml:"priority,attr"`
}

type xmlSteps struct {
	Order string    `xml:"order,attr"`
	Steps []xmlStep `xml:"installStep"`
}

type xmlStep struct {
	Name    string        `xml:"name,attr"`
	Visible *xmlComposite `xml:"visible"`
	Groups  []xmlGroup    `xml:"optionalFileGroups>group"`
}

type xmlGroup struct {
	Name    string      `xml:"name,attr"`
	Type    string      `xml:"type,attr"`
	Plugins []xmlPlugin `xml:"plugins>plugin"`
}

type xmlPlugin struct {
	Name           string             `xml:"name,attr"`
	Description    string             `xml:"description"`
	Image          *xmlImage          `xml:"image"`
	Files          *xmlFileList       `xml:"files"`
	Flags          []xmlFlag          `xml:"conditionFlags>flag"`
	TypeDescriptor *xmlTypeDescriptor `xml:"typeDescriptor"`
}

type xmlFlag struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlTypeDescriptor struct {
	Type           *xmlTypeName       `xml:"type"`
	DependencyType *xmlDependencyType `xml:"dependencyType"`
}

type xmlTypeName struct {
	Name string `xml:"name,attr"`
}

type xmlDependencyType struct {
	DefaultType *xmlTypeName     `xml:"defaultType"`
	Patterns    []xmlTypePattern `xml:"patterns>pattern"`
}

type xmlTypePattern struct {
	Dependencies *xmlComposite `xml:"dependencies"`
	Type         *xmlTypeName  `xml:"type"`
}

type xmlConditional struct {
	Patterns []xmlFilePattern `xml:"patterns>pattern"`
}

type xmlFilePattern struct {
	Dependencies *xmlComposite `xml:"dependencies"`
	Files        *xmlFileList  `xml:"files"`
}

type xmlInfo struct {
	XMLName     xml.Name   `xml:"fomod"`
	Name        string     `xml:"Name"`
	Author      string     `xml:"Author"`
	Version     xmlVersion `xml:"Version"`
	Website     string     `xml:"Website"`
	Description string     `xml:"Description"`
	Groups      []string   `xml:"Groups>element"`
}

type xmlVersion struct {
	MachineVersion string `xml:"MachineVersion,attr"`
	Value          string `xml:",chardata"`
}
