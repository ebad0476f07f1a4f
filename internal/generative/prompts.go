// Package generative implements the LLM-backed delegates that pick cards
// directly from the corpus context.
package generative

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cloo-solutions/folio/internal/service"
)

//go:embed prompts/*.json
var promptFiles embed.FS

const modalPromptsFile = "prompts/modals.json"

var (
	promptCache   map[string]string
	promptCacheMu sync.Mutex
)

// Prompt returns the template stored under key in the embedded prompt file.
func Prompt(key string) (string, error) {
	promptCacheMu.Lock()
	defer promptCacheMu.Unlock()

	if promptCache == nil {
		data, err := promptFiles.ReadFile(modalPromptsFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file %s: %w", modalPromptsFile, err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return "", fmt.Errorf("failed to parse prompt file %s: %w", modalPromptsFile, err)
		}
		promptCache = prompts
	}

	prompt, ok := promptCache[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, modalPromptsFile)
	}
	return prompt, nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass. Placeholders that appear inside substituted values stay literal.
func Format(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// BuildPrompts renders the system and user prompts for a generation request.
func BuildPrompts(req service.GenerationRequest, maxModals int) (system, user string, err error) {
	systemTmpl, err := Prompt("system")
	if err != nil {
		return "", "", err
	}
	userTmpl, err := Prompt("user")
	if err != nil {
		return "", "", err
	}

	history := req.History
	if history == "" {
		history = "(none)"
	}

	system = Format(systemTmpl, map[string]string{
		"MaxModals": strconv.Itoa(maxModals),
	})
	user = Format(userTmpl, map[string]string{
		"Message":     req.Message,
		"History":     history,
		"Experiences": req.Experiences,
		"Projects":    req.Projects,
		"Education":   req.Education,
	})
	return system, user, nil
}

// BuildResumePrompts renders the system and user prompts for a tailored resume.
func BuildResumePrompts(req service.ResumeGenerationRequest) (system, user string, err error) {
	system, err = Prompt("resume_system")
	if err != nil {
		return "", "", err
	}
	userTmpl, err := Prompt("resume_user")
	if err != nil {
		return "", "", err
	}

	user = Format(userTmpl, map[string]string{
		"UserMessages": req.UserMessages,
		"Experiences":  req.Experiences,
		"Projects":     req.Projects,
		"Education":    req.Education,
	})
	return system, user, nil
}
