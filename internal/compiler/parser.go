package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/fomod/internal/logging"
	"github.com/aretw0/fomod/pkg/domain"
)

// Parser converts raw fomod XML into the typed document tree.
// It implements ports.DocumentParser.
type Parser struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used to report ignored constructs.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseModule parses fomod/ModuleConfig.xml. Every structural problem found is
// reported at once in a *domain.ConfigurationError.
func (p *Parser) ParseModule(raw []byte) (*domain.Document, error) {
	var cfg xmlConfig
	if err := decode(raw, &cfg); err != nil {
		return nil, &domain.ConfigurationError{Problems: []string{fmt.Sprintf("malformed XML: %v", err)}}
	}

	b := &builder{logger: p.logger, errs: &domain.ConfigurationError{}}
	doc := b.document(&cfg)
	if err := b.errs.OrNil(); err != nil {
		return nil, err
	}
	p.logger.Debug("module parsed", "module", doc.ModuleName, "steps", len(doc.Steps))
	return doc, nil
}

// ParseInfo parses fomod/info.xml.
func (p *Parser) ParseInfo(raw []byte) (*domain.ModuleInfo, error) {
	var info xmlInfo
	if err := decode(raw, &info); err != nil {
		return nil, &domain.ConfigurationError{Problems: []string{fmt.Sprintf("malformed info XML: %v", err)}}
	}

	version := strings.TrimSpace(info.Version.Value)
	if version == "" {
		version = strings.TrimSpace(info.Version.MachineVersion)
	}

	out := &domain.ModuleInfo{
		Name:        strings.TrimSpace(info.Name),
		Author:      strings.TrimSpace(info.Author),
		Version:     version,
		Website:     strings.TrimSpace(info.Website),
		Description: NormalizeDescription(info.Description),
	}
	for _, g := range info.Groups {
		if g = strings.TrimSpace(g); g != "" {
			out.Groups = append(out.Groups, g)
		}
	}
	return out, nil
}

// builder walks the wire shapes and collects problems instead of stopping at
// the first one.
type builder struct {
	logger *slog.Logger
	errs   *domain.ConfigurationError
}

func (b *builder) document(cfg *xmlConfig) *domain.Document {
	doc := &domain.Document{
		ModuleName:   strings.TrimSpace(cfg.ModuleName),
		Requirements: b.composite(cfg.ModuleDependencies, "moduleDependencies"),
		Installs:     b.files(cfg.RequiredInstallFiles, "requiredInstallFiles"),
	}
	if doc.ModuleName == "" {
		b.errs.Add("module name is missing")
	}
	if cfg.ModuleImage != nil {
		doc.ModuleImage = domain.NormalizePath(cfg.ModuleImage.Path)
	}

	if cfg.InstallSteps != nil {
		seen := make(map[string]bool, len(cfg.InstallSteps.Steps))
		for i := range cfg.InstallSteps.Steps {
			step := b.step(&cfg.InstallSteps.Steps[i], i)
			if step.Name != "" {
				if seen[step.Name] {
					b.errs.Add("duplicate install step %q", step.Name)
				}
				seen[step.Name] = true
			}
			doc.Steps = append(doc.Steps, step)
		}
	}

	if cfg.ConditionalFileInstalls != nil {
		for i, pat := range cfg.ConditionalFileInstalls.Patterns {
			where := fmt.Sprintf("conditionalFileInstalls pattern %d", i+1)
			doc.ConditionalInstalls = append(doc.ConditionalInstalls, domain.ConditionalInstall{
				Dependency: b.composite(pat.Dependencies, where),
				Installs:   b.files(pat.Files, where),
			})
		}
	}

	if len(doc.Steps) == 0 && len(doc.Installs) == 0 && len(doc.ConditionalInstalls) == 0 {
		b.errs.Add("module has no install steps and nothing to install")
	}
	return doc
}

func (b *builder) step(x *xmlStep, i int) domain.Step {
	step := domain.Step{Name: strings.TrimSpace(x.Name)}
	where := fmt.Sprintf("install step %q", step.Name)
	if step.Name == "" {
		where = fmt.Sprintf("install step %d", i+1)
		b.errs.Add("%s has no name", where)
	}
	step.Visibility = b.composite(x.Visible, where)

	if len(x.Groups) == 0 {
		b.errs.Add("%s has no groups", where)
	}
	seen := make(map[string]bool, len(x.Groups))
	for gi := range x.Groups {
		group := b.group(&x.Groups[gi], gi, where)
		if group.Name != "" {
			if seen[group.Name] {
				b.errs.Add("%s: duplicate group %q", where, group.Name)
			}
			seen[group.Name] = true
		}
		step.Groups = append(step.Groups, group)
	}
	return step
}

func (b *builder) group(x *xmlGroup, i int, stepWhere string) domain.Group {
	group := domain.Group{
		Name:     strings.TrimSpace(x.Name),
		Behavior: domain.GroupBehavior(strings.TrimSpace(x.Type)),
	}
	where := fmt.Sprintf("%s, group %q", stepWhere, group.Name)
	if group.Name == "" {
		where = fmt.Sprintf("%s, group %d", stepWhere, i+1)
		b.errs.Add("%s has no name", where)
	}
	if !group.Behavior.Valid() {
		b.errs.Add("%s: unknown group type %q", where, x.Type)
	}
	if len(x.Plugins) == 0 {
		b.errs.Add("%s has no options", where)
	}
	for pi := range x.Plugins {
		group.Options = append(group.Options, b.option(&x.Plugins[pi], pi, where))
	}
	return group
}

func (b *builder) option(x *xmlPlugin, i int, groupWhere string) domain.Option {
	opt := domain.Option{
		Name:        strings.TrimSpace(x.Name),
		Description: NormalizeDescription(x.Description),
	}
	where := fmt.Sprintf("%s, option %q", groupWhere, opt.Name)
	if opt.Name == "" {
		where = fmt.Sprintf("%s, option %d", groupWhere, i+1)
		b.errs.Add("%s has no name", where)
	}
	if x.Image != nil {
		opt.Image = domain.NormalizePath(x.Image.Path)
	}
	opt.Installs = b.files(x.Files, where)
	for _, f := range x.Flags {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			b.errs.Add("%s: condition flag without a name", where)
			continue
		}
		opt.Flags = append(opt.Flags, domain.Flag{Name: name, Value: strings.TrimSpace(f.Value)})
	}
	opt.Type = b.optionType(x.TypeDescriptor, where)
	return opt
}

func (b *builder) optionType(x *xmlTypeDescriptor, where string) domain.OptionType {
	switch {
	case x == nil:
		return domain.StaticType(domain.TypeOptional)
	case x.DependencyType != nil:
		out := domain.OptionType{Default: domain.TypeOptional}
		if x.DependencyType.DefaultType != nil {
			out.Default = b.typeName(x.DependencyType.DefaultType.Name, where)
		}
		for _, pat := range x.DependencyType.Patterns {
			if pat.Type == nil {
				b.errs.Add("%s: type pattern without a type", where)
				continue
			}
			out.Patterns = append(out.Patterns, domain.TypePattern{
				Dependency: b.composite(pat.Dependencies, where),
				Type:       b.typeName(pat.Type.Name, where),
			})
		}
		return out
	case x.Type != nil:
		return domain.StaticType(b.typeName(x.Type.Name, where))
	default:
		return domain.StaticType(domain.TypeOptional)
	}
}

func (b *builder) typeName(s, where string) domain.TypeName {
	t := domain.TypeName(strings.TrimSpace(s))
	if !t.Valid() {
		b.errs.Add("%s: unknown option type %q", where, s)
		return domain.TypeOptional
	}
	return t
}

func (b *builder) files(x *xmlFileList, where string) []domain.Install {
	if x == nil {
		return nil
	}
	out := make([]domain.Install, 0, len(x.Items))
	for _, item := range x.Items {
		folder := false
		switch item.XMLName.Local {
		case "file":
		case "folder":
			folder = true
		default:
			b.logger.Warn("ignoring unknown install element", "element", item.XMLName.Local, "in", where)
			continue
		}

		in := domain.Install{
			Source:   strings.TrimSpace(item.Source),
			Priority: item.Priority,
			Folder:   folder,
		}
		if in.Source == "" && !folder {
			b.errs.Add("%s: %s without a source", where, item.XMLName.Local)
			continue
		}
		if item.Destination != nil {
			in.Destination = strings.TrimSpace(*item.Destination)
			if in.Destination == "" && folder {
				in.Destination = "."
			}
		}
		if domain.Escapes(in.Source) {
			b.errs.Add("%s: source %q points outside the archive", where, in.Source)
			continue
		}
		if domain.Escapes(in.Destination) {
			b.errs.Add("%s: destination %q points outside the install directory", where, in.Destination)
			continue
		}
		out = append(out, in)
	}
	return out
}

// composite converts a compositeDependency. A missing element means no
// constraint and yields nil.
func (b *builder) composite(x *xmlComposite, where string) *domain.Dependency {
	if x == nil {
		return nil
	}
	return b.operator(x.Operator, x.Children, where)
}

func (b *builder) operator(op string, children []xmlDepNode, where string) *domain.Dependency {
	nodes := make([]*domain.Dependency, 0, len(children))
	for i := range children {
		if dep := b.dependency(&children[i], where); dep != nil {
			nodes = append(nodes, dep)
		}
	}

	switch strings.ToLower(strings.TrimSpace(op)) {
	case "", "and":
		return domain.And(nodes...)
	case "or":
		return domain.Or(nodes...)
	default:
		b.errs.Add("%s: unknown dependency operator %q", where, op)
		return domain.And(nodes...)
	}
}

func (b *builder) dependency(x *xmlDepNode, where string) *domain.Dependency {
	switch x.XMLName.Local {
	case "flagDependency":
		name := strings.TrimSpace(x.Flag)
		if name == "" {
			b.errs.Add("%s: flag dependency without a flag", where)
			return nil
		}
		return domain.FlagCheck(name, strings.TrimSpace(x.Value))
	case "fileDependency":
		state := domain.FileState(strings.TrimSpace(x.State))
		if !state.Valid() {
			b.errs.Add("%s: unknown file state %q", where, x.State)
			return nil
		}
		return domain.FileCheck(strings.TrimSpace(x.File), state)
	case "dependencies":
		return b.operator(x.Operator, x.Children, where)
	case "gameDependency", "fommDependency", "foseDependency":
		// The host version is not known here; treat it as satisfied.
		b.logger.Debug("version dependency treated as satisfied",
			"element", x.XMLName.Local, "version", x.Version, "in", where)
		return domain.Always()
	default:
		b.logger.Warn("ignoring unknown dependency element", "element", x.XMLName.Local, "in", where)
		return nil
	}
}
