package classifier

import (
	"regexp"
	"strings"

	"portal-noticias/models"
)

type rule struct {
	category models.Category
	re       *regexp.Regexp
}

// 순서가 우선순위이다. 첫 번째로 매칭되는 카테고리를 사용한다.
var rules = []rule{
	{models.CategoryEconomia, regexp.MustCompile(`economia|mercado|dólar|dolar|inflação|juros|\bpib\b|bolsa|ibovespa|selic`)},
	{models.CategoryPolitica, regexp.MustCompile(`política|governo|congresso|senado|eleição|eleições|presidente|ministro|\bstf\b`)},
	{models.CategoryTecnologia, regexp.MustCompile(`tecnologia|inteligência artificial|\bia\b|software|aplicativo|internet|startup`)},
	{models.CategoryEsportes, regexp.MustCompile(`futebol|esporte|campeonato|\bcopa\b|seleção|brasileirão`)},
	{models.CategorySaude, regexp.MustCompile(`saúde|hospital|doença|vacina|médico|\bsus\b`)},
	{models.CategoryEducacao, regexp.MustCompile(`educação|escola|universidade|\benem\b|ensino|professor`)},
}

// Classify returns the first matching category for title+content, or Brasil.
func Classify(title, content string) models.Category {
	text := strings.ToLower(title + " " + content)
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.category
		}
	}
	return models.CategoryBrasil
}
