package generator

import (
	"fmt"
	"strings"
)

// 구분자 형식 프롬프트. 스트리밍과 JSON 실패 시 호환 경로에서 사용한다.
const delimitedSystemPrompt = `Você é um jornalista profissional brasileiro de um portal de notícias.
Reescreva a notícia fornecida com suas próprias palavras, em português do Brasil, com linguagem clara,
objetiva e imparcial. Não invente fatos e não inclua links, URLs ou referências a outros sites.

Responda EXATAMENTE neste formato, sem texto antes ou depois:

---URGENTE---
SIM ou NAO (SIM apenas para fatos de grande impacto nacional que acabaram de acontecer)
---TITULO---
Título chamativo e informativo, com no máximo 100 caracteres
---SUBTITULO---
Subtítulo que resume a notícia em uma ou duas frases
---AUTOR---
Redação IA
---CONTEUDO---
Corpo da matéria em HTML, usando apenas <p>, <h2>, <h3>, <strong>, <em>, <ul>, <li> e <blockquote>`

// JSON 출력 모드용 프롬프트
const jsonSystemPrompt = `Você é um jornalista profissional brasileiro de um portal de notícias.
Reescreva a notícia fornecida com suas próprias palavras, em português do Brasil, com linguagem clara,
objetiva e imparcial. Não invente fatos e não inclua links, URLs ou referências a outros sites.

Responda SOMENTE com um objeto JSON válido com as chaves:
- "urgente": boolean, true apenas para fatos de grande impacto nacional que acabaram de acontecer
- "titulo": string, no máximo 100 caracteres
- "subtitulo": string, uma ou duas frases
- "autor": string, use "Redação IA"
- "conteudo": string, corpo em HTML usando apenas <p>, <h2>, <h3>, <strong>, <em>, <ul>, <li> e <blockquote>
Não envolva o JSON em bloco de código markdown.`

// Source 는 생성 입력이 되는 원문 기사이다.
type Source struct {
	URL         string
	Title       string
	Description string
	Markdown    string
	Image       string
	// Topic/Category 는 관리자 스트리밍 생성에서만 채워진다.
	Topic    string
	Category string
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func buildUserPrompt(src Source, markdownLimit int) string {
	var b strings.Builder
	if src.Topic != "" {
		fmt.Fprintf(&b, "Tema: %s\n", src.Topic)
	}
	if src.Category != "" {
		fmt.Fprintf(&b, "Categoria: %s\n", src.Category)
	}
	if src.Title != "" {
		fmt.Fprintf(&b, "Título original: %s\n", src.Title)
	}
	if src.Description != "" {
		fmt.Fprintf(&b, "Descrição: %s\n", src.Description)
	}
	if src.URL != "" {
		fmt.Fprintf(&b, "Fonte: %s\n", src.URL)
	}
	if md := strings.TrimSpace(src.Markdown); md != "" {
		b.WriteString("\nConteúdo original:\n")
		b.WriteString(truncateRunes(md, markdownLimit))
	}
	return b.String()
}
