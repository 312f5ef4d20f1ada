package generator

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	anchorRe      = regexp.MustCompile(`(?is)<a\b[^>]*>(.*?)</a\s*>`)
	strayAnchorRe = regexp.MustCompile(`(?i)</?a\b[^>]*>`)
	// 앞쪽 공백까지 함께 잡아 링크가 빠진 자리에만 공백을 정리한다.
	markdownLinkRe = regexp.MustCompile(`([ \t]*)!?\[([^\]]*)\]\([^)]*\)`)
	bareURLRe      = regexp.MustCompile(`(?i)[ \t]*\b(?:https?://|www\.)[^\s<>"']+`)
)

const urlTrailingPunct = ".,;:!?)"

// stripText removes markdown links (keeping the label) and bare URLs from plain text.
func stripText(s string) string {
	s = markdownLinkRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := markdownLinkRe.FindStringSubmatch(m)
		if strings.TrimSpace(sub[2]) == "" {
			return ""
		}
		return sub[1] + sub[2]
	})
	return bareURLRe.ReplaceAllStringFunc(s, func(m string) string {
		// 문장 부호는 URL 이 아니라 문장의 일부이다
		trimmed := strings.TrimRight(m, urlTrailingPunct)
		return m[len(trimmed):]
	})
}

// StripLinks removes anchor tags (keeping their text), markdown links (keeping
// their label) and bare URLs. Used for short fields such as title and excerpt.
func StripLinks(s string) string {
	s = anchorRe.ReplaceAllString(s, "$1")
	s = strayAnchorRe.ReplaceAllString(s, "")
	return strings.TrimSpace(stripText(s))
}

var removedTags = "script, style, iframe, object, embed, form, input, button, link, meta"

// SanitizeHTML 은 위험한 태그와 on* 이벤트 속성, javascript: URL 을 제거한다. 링크는 유지한다.
func SanitizeHTML(s string) string {
	return sanitize(s, false)
}

// Clean 은 생성 본문 후처리이다. 새니타이즈에 더해 링크를 텍스트 노드 안에서만 걷어낸다.
func Clean(content string) string {
	return sanitize(content, true)
}

func sanitize(s string, dropLinks bool) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div id=\"__root\">" + s + "</div>"))
	if err != nil {
		if dropLinks {
			return StripLinks(s)
		}
		return ""
	}
	root := doc.Find("#__root")
	root.Find(removedTags).Remove()
	root.Find("*").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		kept := node.Attr[:0]
		for _, a := range node.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
				continue
			}
			kept = append(kept, a)
		}
		node.Attr = kept
	})

	if dropLinks {
		root.Find("a").Each(func(_ int, a *goquery.Selection) {
			a.ReplaceWithSelection(a.Contents())
		})
		stripTextNodes(root.Get(0))
	}

	out, err := root.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// stripTextNodes 는 속성과 pre/code 내용은 건드리지 않는다.
func stripTextNodes(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			c.Data = stripText(c.Data)
		case c.Type == html.ElementNode && (c.Data == "pre" || c.Data == "code"):
		default:
			stripTextNodes(c)
		}
	}
}
