package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
	"github.com/custodia-labs/responda-cli/internal/logger"
)

// Ensure DetectionService implements the interface.
var _ driving.DetectionService = (*DetectionService)(nil)

// DetectionService extracts candidate questions from noisy extracted text.
// The rule set is deliberately permissive: request documents mix
// interrogative sentences, imperative "please describe" requests, and
// numbered list items with sloppy punctuation. A false positive only costs
// the reviewer a deletion, so the rules favor recall over precision.
type DetectionService struct {
	settings domain.DetectionSettings
	starters map[string]bool
	numbered *regexp.Regexp
	capital  *regexp.Regexp
	polite   *regexp.Regexp
}

// NewDetectionService creates a detection service with the given rule set.
// Zero-value fields fall back to domain.DefaultDetectionSettings.
func NewDetectionService(settings domain.DetectionSettings) *DetectionService {
	defaults := domain.DefaultDetectionSettings()
	if settings.MinLength <= 0 {
		settings.MinLength = defaults.MinLength
	}
	if len(settings.StarterWords) == 0 {
		settings.StarterWords = defaults.StarterWords
	}
	if len(settings.ImperativeVerbs) == 0 {
		settings.ImperativeVerbs = defaults.ImperativeVerbs
	}
	if settings.BulletGlyphs == "" {
		settings.BulletGlyphs = defaults.BulletGlyphs
	}

	starters := make(map[string]bool, len(settings.StarterWords))
	for _, w := range settings.StarterWords {
		starters[strings.ToLower(w)] = true
	}

	verbs := make([]string, 0, len(settings.ImperativeVerbs))
	for _, v := range settings.ImperativeVerbs {
		verbs = append(verbs, regexp.QuoteMeta(strings.ToLower(v)))
	}

	return &DetectionService{
		settings: settings,
		starters: starters,
		numbered: regexp.MustCompile(`^\d+[.)]\s+.*\?`),
		capital:  regexp.MustCompile(`^[A-Z][^.!]*\?$`),
		polite:   regexp.MustCompile(`(?i)\b(please|kindly)\s+(` + strings.Join(verbs, "|") + `)\b`),
	}
}

// Detect returns the unique questions found in raw text, ordered by first
// occurrence. Duplicates are removed by exact string equality. An empty
// result is valid: it means no questions were found.
func (s *DetectionService) Detect(rawText string) []string {
	candidates := s.candidates(rawText)

	questions := []string{}
	seen := make(map[string]bool)

	for _, candidate := range candidates {
		if !s.isQuestion(candidate) {
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		questions = append(questions, candidate)
	}

	logger.Debug("Detection: %d questions from %d candidates", len(questions), len(candidates))

	return questions
}

// candidates normalizes raw text and splits it into trimmed sentence
// candidates. Line boundaries that survive normalization are hard
// candidate boundaries.
func (s *DetectionService) candidates(rawText string) []string {
	var out []string
	for _, logical := range s.normalize(rawText) {
		out = append(out, splitCandidates(logical)...)
	}
	return out
}

// normalize repairs PDF extraction artifacts. It drops blank lines and
// stray bullet glyph lines, then re-joins lines that extraction wrapped
// mid-sentence: a line merges into the previous accumulated text unless
// that text already ends in a sentence terminator or colon.
func (s *DetectionService) normalize(rawText string) []string {
	var logical []string
	current := ""

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.isBulletGlyph(line) {
			continue
		}

		switch {
		case current == "":
			current = line
		case endsWithTerminator(current):
			logical = append(logical, current)
			current = line
		default:
			current += " " + line
		}
	}

	if current != "" {
		logical = append(logical, current)
	}

	return logical
}

// isBulletGlyph reports whether a trimmed line is a lone bullet character
// left behind by PDF list rendering.
func (s *DetectionService) isBulletGlyph(line string) bool {
	runes := []rune(line)
	return len(runes) == 1 && strings.ContainsRune(s.settings.BulletGlyphs, runes[0])
}

// endsWithTerminator reports whether text ends in one of `.`, `!`, `?`, `:`.
func endsWithTerminator(text string) bool {
	if text == "" {
		return false
	}
	return strings.ContainsRune(".!?:", rune(text[len(text)-1]))
}

// splitCandidates splits a logical sentence after each `.`, `!` or `?`
// that is followed by whitespace. Candidates are trimmed; blanks dropped.
func splitCandidates(text string) []string {
	var candidates []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if isTerminator(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if c := strings.TrimSpace(current.String()); c != "" {
				candidates = append(candidates, c)
			}
			current.Reset()
		}
	}

	if c := strings.TrimSpace(current.String()); c != "" {
		candidates = append(candidates, c)
	}

	return candidates
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isQuestion reports whether a trimmed candidate is a question under any
// of the detection rules. Candidates below the minimum length are never
// questions.
func (s *DetectionService) isQuestion(candidate string) bool {
	if len(candidate) < s.settings.MinLength {
		return false
	}

	if strings.HasSuffix(candidate, "?") {
		return true
	}

	if s.numbered.MatchString(candidate) ||
		s.capital.MatchString(candidate) ||
		s.polite.MatchString(candidate) {
		return true
	}

	words := strings.Fields(strings.ToLower(candidate))
	if len(words) == 0 {
		return false
	}
	if s.starters[words[0]] {
		return true
	}

	// Bullet prefixes that survive normalization push the starter word to
	// the 2nd or 3rd token.
	for i := 1; i < len(words) && i < 3; i++ {
		if s.starters[words[i]] {
			return true
		}
	}

	return false
}
