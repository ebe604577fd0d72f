// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// stubRender replaces the glamour renderer with an identity function for the
// duration of the test. Tests using it must not run in parallel.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) {
		return in, nil
	}
}

func TestIssuesMapCompleteness(t *testing.T) {
	for id := WorkspaceNotFoundId; id <= AmbiguousCandidatesId; id++ {
		issue := Get(id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if issue.Id() != id {
			t.Errorf("issue.Id() = %d, want %d", issue.Id(), id)
		}
		if strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no content", id)
		}
	}
	if Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestValues_Ordered(t *testing.T) {
	values := Values()
	if len(values) != int(AmbiguousCandidatesId) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), AmbiguousCandidatesId)
	}
	for i, issue := range values {
		if issue.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), i+1)
		}
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	stubRender(t)

	rendered, err := Get(MissingModuleFormatId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(rendered, "compilerOptions.module") {
		t.Error("rendered issue should mention compilerOptions.module")
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "typescriptlang.org/tsconfig") {
		t.Errorf("rendered issue should list its doc links, got:\n%s", rendered)
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	stubRender(t)

	rendered, err := Get(DuplicateOutputId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issue without links should not render a See also section")
	}
}

func TestIssue_DocLinksAreCloned(t *testing.T) {
	issue := Get(ProjectConfigInvalidId)
	links := issue.DocLinks()
	if len(links) == 0 {
		t.Fatal("expected doc links")
	}
	links[0] = "changed"
	if issue.DocLinks()[0] == "changed" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestAllIssuesRenderWithGlamour(t *testing.T) {
	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", issue.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("issue %d rendered to empty string", issue.Id())
		}
	}
}
