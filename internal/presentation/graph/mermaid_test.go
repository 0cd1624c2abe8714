package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/fomod/internal/presentation/graph"
	"github.com/aretw0/fomod/internal/testutils"
	"github.com/aretw0/fomod/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		doc      *domain.Document
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Steps In Document Order",
			doc:  testutils.CoreExtras(),
			contains: []string{
				"graph TD",
				"start((\"Core and Extras\"))",
				"step_0[\"Core <br/> 1 groups, 1 options\"]",
				"start --> step_0",
				"step_1 --> install",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Visibility Labels The Edge",
			doc:  testutils.CoreExtras(),
			contains: []string{
				"step_0 -- \"HasCore = true\" --> step_1",
			},
		},
		{
			name: "Conditional Installs Feed The Plan",
			doc:  testutils.Quality(),
			contains: []string{
				"cond_0[/\"1 files\"/]",
				"cond_0 -. \"Quality = high\" .-> install",
				"cond_1 -. \"Parallax = on\" .-> install",
			},
		},
		{
			name:    "Overlay Styles",
			doc:     testutils.Quality(),
			overlay: &graph.GraphOverlay{VisibleSteps: []string{"Quality", "Finish"}, CurrentStep: "Finish"},
			contains: []string{
				"class step_0 visited;",
				"class step_1 hidden;",
				"class step_2 current;",
			},
		},
		{
			name: "Quotes Are Escaped",
			doc: &domain.Document{
				ModuleName: `The "Best" Mod`,
				Steps:      []domain.Step{{Name: "Main"}},
			},
			contains: []string{"start((\"The 'Best' Mod\"))"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.doc, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() missing %q\nGot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		dep  *domain.Dependency
		want string
	}{
		{nil, "always"},
		{domain.Always(), "always"},
		{domain.Or(), "never"},
		{domain.FlagCheck("A", "1"), "A = 1"},
		{domain.FileCheck("Skyrim.esm", domain.FileActive), "Skyrim.esm is Active"},
		{domain.And(domain.FlagCheck("A", "1")), "A = 1"},
		{
			domain.Or(domain.FlagCheck("A", "1"), domain.And(domain.FlagCheck("B", "2"), domain.FlagCheck("C", ""))),
			"A = 1 OR (B = 2 AND C = )",
		},
	}
	for _, tt := range tests {
		if got := graph.Describe(tt.dep); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
