package models

import (
	"fmt"
	"strings"
)

// DefaultDescription is stored for products created without a description.
const DefaultDescription = "Produto de alta qualidade para verdadeiros nerds! Este item é perfeito para colecionadores e fãs que buscam itens exclusivos e autênticos."

type Category string

const (
	CategoryDisney      Category = "disney"
	CategoryMarvel      Category = "marvel"
	CategoryStarWars    Category = "starwars"
	CategoryPlayStation Category = "playstation"
	CategoryXbox        Category = "xbox"
	CategoryLego        Category = "lego"
	CategoryGeneral     Category = "geral"
)

var Categories = []Category{
	CategoryDisney,
	CategoryMarvel,
	CategoryStarWars,
	CategoryPlayStation,
	CategoryXbox,
	CategoryLego,
	CategoryGeneral,
}

// ParseCategory accepts any casing and surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}

	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) String() string {
	return string(c)
}

// Product is the list projection of a catalog entry.
type Product struct {
	ID    int64  `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	Price string `db:"price" json:"price"`
	Image string `db:"image" json:"image"`
}

type ProductDetail struct {
	Product
	Category    Category `db:"category" json:"category"`
	Description string   `db:"description" json:"description"`
	PriceCents  int64    `db:"price_cents" json:"price_cents"`
	Unpriced    bool     `db:"-" json:"unpriced,omitempty"`
}

var categoryBlurbs = map[Category]string{
	CategoryDisney: "Um produto mágico da Disney para fãs de todas as idades! " +
		"Itens oficiais com a qualidade e encanto que só a Disney pode proporcionar. " +
		"Perfeito para colecionadores e entusiastas do universo Disney.",
	CategoryMarvel: "Para verdadeiros heróis! Este item oficial Marvel " +
		"traz toda a ação e aventura do universo cinematográfico e dos quadrinhos. " +
		"Ideal para fãs dos Vingadores e do universo Marvel.",
	CategoryStarWars: "Que a Força esteja com você! Produto oficial Star Wars " +
		"para colecionadores e fãs da saga galáctica mais épica de todos os tempos. " +
		"De uma galáxia muito, muito distante direto para você!",
	CategoryPlayStation: "Maximize sua experiência de jogo! Produto oficial PlayStation " +
		"com tecnologia de ponta e qualidade superior. Para gamers que buscam o melhor " +
		"em entretenimento e performance.",
	CategoryXbox: "Power Your Dreams! Produto oficial Xbox para elevar seu " +
		"gaming ao próximo nível. Tecnologia avançada e design inovador para uma " +
		"experiência de jogo incomparável.",
	CategoryLego: "Construa, brinque e exiba! Set LEGO oficial com peças de " +
		"alta qualidade e design detalhado. Perfeito para builders de todas as idades " +
		"que amam criar e colecionar.",
}

const genericBlurb = "Produto de alta qualidade para verdadeiros nerds! " +
	"Este item é perfeito para colecionadores e fãs que buscam itens exclusivos e autênticos. " +
	"Adicione ao seu carrinho e garanta já o seu!"

// FallbackDescription builds the detail text shown when a product has no stored description.
func FallbackDescription(title string, category Category) string {
	blurb, ok := categoryBlurbs[category]
	if !ok {
		blurb = genericBlurb
	}

	return title + " - " + blurb
}
