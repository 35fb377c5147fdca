package tui

import (
	"strings"
	"testing"
)

func TestCategoryStyleKnownCategory(t *testing.T) {
	for _, c := range []string{"Product", "Job", "Email", "Social", "Support"} {
		t.Run(c, func(t *testing.T) {
			rendered := CategoryStyle(c).Render(c)
			if !strings.Contains(rendered, c) {
				t.Errorf("CategoryStyle(%q).Render(%q) = %q, want to contain %q", c, c, rendered, c)
			}
		})
	}
}

func TestCategoryStyleUnknownFallback(t *testing.T) {
	rendered := CategoryStyle("Legal").Render("Legal")
	if !strings.Contains(rendered, "Legal") {
		t.Errorf("CategoryStyle fallback did not render text: %q", rendered)
	}
}

func TestRenderShimmerLogoContainsBrand(t *testing.T) {
	for _, frame := range []int{0, 7, 1000} {
		out := renderShimmerLogo(frame)
		for _, r := range "LEGENDS" {
			if !strings.ContainsRune(out, r) {
				t.Errorf("frame %d: logo missing %q", frame, r)
			}
		}
		if !strings.Contains(out, "PromptAI") {
			t.Errorf("frame %d: logo missing PromptAI", frame)
		}
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{127.4, 127},
		{255, 255},
		{300, 255},
	}
	for _, tc := range tests {
		if got := clampByte(tc.in); got != tc.want {
			t.Errorf("clampByte(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHelpBarPairs(t *testing.T) {
	out := helpBar("j/k", "nav", "esc", "close", "dangling")
	for _, want := range []string{"j/k", "nav", "esc", "close"} {
		if !strings.Contains(out, want) {
			t.Errorf("helpBar missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "dangling") {
		t.Errorf("helpBar rendered an unpaired key: %q", out)
	}
}

func TestHelpItemsUseSiteURL(t *testing.T) {
	items := helpItems("https://promptai.example")
	if items[0].url != "https://promptai.example" {
		t.Errorf("website url = %q", items[0].url)
	}
	if items[1].url != "https://promptai.example/reset-password" {
		t.Errorf("reset url = %q", items[1].url)
	}
	if !strings.HasPrefix(items[2].url, "mailto:") {
		t.Errorf("support url = %q, want mailto:", items[2].url)
	}
}

func TestHelpViewMarksCursor(t *testing.T) {
	out := helpView(helpItems("http://localhost:5173"), 1)
	if !strings.Contains(out, "> ") {
		t.Error("helpView missing cursor marker")
	}
	if !strings.Contains(out, "legends whoami") {
		t.Error("helpView missing command list")
	}
}
