package testutils

import "github.com/aretw0/fomod/pkg/domain"

// CoreExtras returns a two step module. "Core" is a SelectAll step whose
// only option sets HasCore=true; "Extras" is visible only while HasCore is
// "true" and offers two independent add-ons.
func CoreExtras() *domain.Document {
	return &domain.Document{
		ModuleName: "Core and Extras",
		Installs: []domain.Install{
			{Source: "readme.txt", Destination: "docs/readme.txt"},
		},
		Steps: []domain.Step{
			{
				Name: "Core",
				Groups: []domain.Group{{
					Name:     "Essentials",
					Behavior: domain.SelectAll,
					Options: []domain.Option{{
						Name:     "Core Files",
						Type:     domain.StaticType(domain.TypeRequired),
						Installs: []domain.Install{{Source: "core", Destination: ".", Folder: true}},
						Flags:    []domain.Flag{{Name: "HasCore", Value: "true"}},
					}},
				}},
			},
			{
				Name:       "Extras",
				Visibility: domain.FlagCheck("HasCore", "true"),
				Groups: []domain.Group{{
					Name:     "Addons",
					Behavior: domain.SelectAny,
					Options: []domain.Option{
						{
							Name:     "HD Textures",
							Type:     domain.StaticType(domain.TypeOptional),
							Installs: []domain.Install{{Source: "hd/textures.bsa", Destination: "textures.bsa", Priority: "5"}},
							Flags:    []domain.Flag{{Name: "Textures", Value: "hd"}},
						},
						{
							Name:     "Patch",
							Type:     domain.StaticType(domain.TypeOptional),
							Installs: []domain.Install{{Source: "patch/patch.esp", Destination: "patch.esp"}},
						},
					},
				}},
			},
		},
	}
}

// Quality returns a module with a radio group in its first step whose choice
// gates the second step, plus a conditional install driven by the same flag.
func Quality() *domain.Document {
	return &domain.Document{
		ModuleName: "Quality",
		Steps: []domain.Step{
			{
				Name: "Quality",
				Groups: []domain.Group{{
					Name:     "Resolution",
					Behavior: domain.SelectExactlyOne,
					Options: []domain.Option{
						{
							Name:  "Low",
							Type:  domain.StaticType(domain.TypeRecommended),
							Flags: []domain.Flag{{Name: "Quality", Value: "low"}},
						},
						{
							Name:  "High",
							Type:  domain.StaticType(domain.TypeOptional),
							Flags: []domain.Flag{{Name: "Quality", Value: "high"}},
						},
					},
				}},
			},
			{
				Name:       "High Options",
				Visibility: domain.FlagCheck("Quality", "high"),
				Groups: []domain.Group{{
					Name:     "Extras",
					Behavior: domain.SelectAny,
					Options: []domain.Option{{
						Name:     "Parallax",
						Type:     domain.StaticType(domain.TypeOptional),
						Installs: []domain.Install{{Source: "parallax", Destination: "textures", Folder: true}},
						Flags:    []domain.Flag{{Name: "Parallax", Value: "on"}},
					}},
				}},
			},
			{
				Name: "Finish",
				Groups: []domain.Group{{
					Name:     "Confirm",
					Behavior: domain.SelectAny,
					Options: []domain.Option{{
						Name: "Nothing",
						Type: domain.StaticType(domain.TypeOptional),
					}},
				}},
			},
		},
		ConditionalInstalls: []domain.ConditionalInstall{
			{
				Dependency: domain.FlagCheck("Quality", "high"),
				Installs:   []domain.Install{{Source: "high/meshes", Destination: "meshes", Folder: true}},
			},
			{
				Dependency: domain.FlagCheck("Parallax", "on"),
				Installs:   []domain.Install{{Source: "high/parallax.esp", Destination: "parallax.esp"}},
			},
		},
	}
}
