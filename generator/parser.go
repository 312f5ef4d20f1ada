package generator

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

const (
	DefaultTitle  = "Notícia sem título"
	DefaultAuthor = "Redação IA"
)

// Parsed is the article as returned by the model, before post-processing.
type Parsed struct {
	Urgent  bool   `json:"urgente"`
	Title   string `json:"titulo"`
	Excerpt string `json:"subtitulo"`
	Author  string `json:"autor"`
	Content string `json:"conteudo"`
}

var sectionNames = []string{"URGENTE", "TITULO", "SUBTITULO", "AUTOR", "CONTEUDO"}

// 각 섹션은 다음 알려진 구분자 또는 문자열 끝까지를 캡처한다.
var sectionRes = func() map[string]*regexp.Regexp {
	next := `(?:---(?:` + strings.Join(sectionNames, "|") + `)---|\z)`
	m := make(map[string]*regexp.Regexp, len(sectionNames))
	for _, name := range sectionNames {
		m[name] = regexp.MustCompile(`(?s)---` + name + `---(.*?)` + next)
	}
	return m
}()

func section(text, name string) string {
	match := sectionRes[name].FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// IsUrgent reports whether the URGENTE section says SIM.
func IsUrgent(s string) bool {
	return strings.Contains(strings.ToUpper(strings.TrimSpace(s)), "SIM")
}

// ParseDelimited never fails. Missing sections fall back to their defaults,
// so a partial stream buffer can be parsed for a live preview.
func ParseDelimited(text string) Parsed {
	p := Parsed{
		Urgent:  IsUrgent(section(text, "URGENTE")),
		Title:   section(text, "TITULO"),
		Excerpt: section(text, "SUBTITULO"),
		Author:  section(text, "AUTOR"),
		Content: section(text, "CONTEUDO"),
	}
	p.applyDefaults()
	return p
}

// HasDelimiters 는 text 에 알려진 구분자가 하나라도 있는지 확인한다.
func HasDelimiters(text string) bool {
	for _, name := range sectionNames {
		if strings.Contains(text, "---"+name+"---") {
			return true
		}
	}
	return false
}

var ErrInvalidJSON = errors.New("generator: invalid json article")

// ParseJSON decodes JSON-mode output. A markdown code fence around the object is tolerated.
func ParseJSON(text string) (Parsed, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw struct {
		Urgent  json.RawMessage `json:"urgente"`
		Title   string          `json:"titulo"`
		Excerpt string          `json:"subtitulo"`
		Author  string          `json:"autor"`
		Content string          `json:"conteudo"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return Parsed{}, errors.Join(ErrInvalidJSON, err)
	}
	if strings.TrimSpace(raw.Title) == "" && strings.TrimSpace(raw.Content) == "" {
		return Parsed{}, ErrInvalidJSON
	}

	p := Parsed{
		Title:   strings.TrimSpace(raw.Title),
		Excerpt: strings.TrimSpace(raw.Excerpt),
		Author:  strings.TrimSpace(raw.Author),
		Content: strings.TrimSpace(raw.Content),
	}
	// urgente 는 boolean 이 원칙이지만 "SIM" 같은 문자열도 허용한다
	var b bool
	var s string
	switch {
	case json.Unmarshal(raw.Urgent, &b) == nil:
		p.Urgent = b
	case json.Unmarshal(raw.Urgent, &s) == nil:
		p.Urgent = IsUrgent(s)
	}
	p.applyDefaults()
	return p, nil
}

func (p *Parsed) applyDefaults() {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
}
