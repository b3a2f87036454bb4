// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/strus/strusmod/pkg/module"
)

func stubRender(t *testing.T) {
	t.Helper()
	originalRender := render
	t.Cleanup(func() { render = originalRender })
	render = func(in string, _ string) (string, error) {
		return in, nil
	}
}

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ConfigLoadFailedId,
		InvalidModuleNameId,
		ModuleNotFoundId,
		ModuleOpenFailedId,
		NoEntryPointId,
		SignatureMismatchId,
		ModuleTooNewId,
		UnknownModuleTypeId,
		ComponentMajorMismatchId,
		ComponentMinorTooOldId,
		OutOfMemoryId,
		ComponentNotFoundId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
	if len(issues) != len(ids) {
		t.Errorf("len(issues) = %d, want %d", len(issues), len(ids))
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		contains string
	}{
		{ModuleNotFoundId, "STRUS_MODULE_PATH"},
		{InvalidModuleNameId, ".."},
		{NoEntryPointId, "EntryPoint"},
		{ModuleOpenFailedId, "--native"},
		{ConfigLoadFailedId, "config show"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			iss := Get(tt.id)
			if iss == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if iss.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", iss.Id(), tt.id)
			}
			if !strings.Contains(string(iss.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() does not contain %q", tt.contains)
			}
		})
	}

	if Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestForCode(t *testing.T) {
	tests := []struct {
		code module.ErrorCode
		want Id
	}{
		{module.ErrorUnknownModuleType, UnknownModuleTypeId},
		{module.ErrorSignature, SignatureMismatchId},
		{module.ErrorModMinorVersion, ModuleTooNewId},
		{module.ErrorCompMajorVersion, ComponentMajorMismatchId},
		{module.ErrorCompMinorVersion, ComponentMinorTooOldId},
		{module.ErrorOpenModule, ModuleOpenFailedId},
		{module.ErrorNoEntryPoint, NoEntryPointId},
		{module.ErrorInvalidFilePath, InvalidModuleNameId},
		{module.ErrorLoadModuleFailed, ModuleNotFoundId},
		{module.ErrorOutOfMemory, OutOfMemoryId},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			iss := ForCode(tt.code)
			if iss == nil {
				t.Fatalf("ForCode(%d) returned nil", tt.code)
			}
			if iss.Id() != tt.want {
				t.Errorf("ForCode(%d) = %d, want %d", tt.code, iss.Id(), tt.want)
			}
			if iss.Code() != tt.code {
				t.Errorf("Code() = %d, want %d", iss.Code(), tt.code)
			}
		})
	}

	if ForCode(module.ErrorNone) != nil {
		t.Error("ForCode(ErrorNone) should return nil")
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d", i)
		}
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{
		id:       ModuleNotFoundId,
		mdMsg:    "# Test",
		extLinks: []HttpLink{"https://example.com/modules"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "See also") {
		t.Error("Render() should include the See also section")
	}
	if !strings.Contains(rendered, "https://example.com/modules") {
		t.Error("Render() should include the link")
	}

	links := testIssue.ExtLinks()
	links[0] = "changed"
	if testIssue.extLinks[0] == "changed" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	stubRender(t)

	for _, iss := range Values() {
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", iss.Id())
			continue
		}
		rendered, err := iss.Render("dark")
		if err != nil {
			t.Errorf("issue %d: Render() returned error: %v", iss.Id(), err)
		}
		if !strings.Contains(rendered, "#") {
			t.Errorf("issue %d: rendered output lost its heading", iss.Id())
		}
	}
}
