package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// StarterProvider resolves problem-specific starter code with graceful
// degradation: remote per-problem template, then a locally generated
// skeleton inferred from the problem title, then the generic boilerplate.
// Any step may fail (network, parse); failure always falls through to the
// next step and is never surfaced.
type StarterProvider struct {
	remoteURL string
	client    *http.Client
}

// NewStarterProvider builds a provider. An empty remoteURL disables the
// remote step entirely.
func NewStarterProvider(remoteURL string, timeout time.Duration) *StarterProvider {
	return &StarterProvider{
		remoteURL: remoteURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// starterResponse is the consumed subset of the remote template payload.
type starterResponse struct {
	Code map[string]string `json:"code"` // language tag -> starter source
}

// Starter returns starter code for a problem title and language.
func (p *StarterProvider) Starter(ctx context.Context, title string, language types.Language) string {
	if code, ok := p.fetchRemote(ctx, title, language); ok {
		return code
	}
	if code, ok := generateFromTitle(title, language); ok {
		return code
	}
	return Template(language)
}

// fetchRemote asks the configured template service for per-problem starter
// code.
func (p *StarterProvider) fetchRemote(ctx context.Context, title string, language types.Language) (string, bool) {
	if p.remoteURL == "" || title == "" {
		return "", false
	}

	u := fmt.Sprintf("%s?title=%s", p.remoteURL, url.QueryEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logging.Get(logging.CategoryLang).Debug("starter fetch failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Get(logging.CategoryLang).Debug("starter fetch status %d", resp.StatusCode)
		return "", false
	}

	var sr starterResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		logging.Get(logging.CategoryLang).Debug("starter decode failed: %v", err)
		return "", false
	}

	code, ok := sr.Code[string(language)]
	if !ok || strings.TrimSpace(code) == "" {
		return "", false
	}
	return code, true
}

var nonIdent = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// generateFromTitle builds a function skeleton named after the problem title.
// Only titles with at least one identifier-worthy word qualify.
func generateFromTitle(title string, language types.Language) (string, bool) {
	name := functionName(title)
	if name == "" {
		return "", false
	}

	switch language {
	case types.LangPython:
		return fmt.Sprintf("def %s():\n    # TODO: solve %q\n    pass\n", name, title), true
	case types.LangJavaScript:
		return fmt.Sprintf("function %s() {\n  // TODO: solve %q\n}\n", name, title), true
	case types.LangJava:
		return fmt.Sprintf("public class Main {\n    static void %s() {\n        // TODO: solve %q\n    }\n\n    public static void main(String[] args) {\n        %s();\n    }\n}\n", name, title, name), true
	case types.LangC:
		return fmt.Sprintf("#include <stdio.h>\n\nvoid %s(void) {\n    /* TODO: solve %q */\n}\n\nint main() {\n    %s();\n    return 0;\n}\n", name, title, name), true
	case types.LangCPP:
		return fmt.Sprintf("#include <iostream>\n\nvoid %s() {\n    // TODO: solve %q\n}\n\nint main() {\n    %s();\n    return 0;\n}\n", name, title, name), true
	}
	return "", false
}

// functionName lowerCamelCases the title's words.
func functionName(title string) string {
	words := strings.Fields(nonIdent.ReplaceAllString(title, " "))
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if i > 0 {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		b.WriteString(w)
	}
	name := b.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "solve" + strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}
