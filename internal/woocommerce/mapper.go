package woocommerce

import (
	"regexp"
	"strings"

	"github.com/ml-muebles/storefront/internal/money"
	"github.com/ml-muebles/storefront/internal/variant"
)

var (
	// 颜色类属性，决定色块与展示图
	colorTaxonomies = map[string]struct{}{
		"pa_color":         {},
		"pa_color-compose": {},
		"pa_color-brazo":   {},
	}
	// 列表卡片上的色块只取主颜色轴
	cardSwatchTaxonomies = map[string]struct{}{
		"pa_color":         {},
		"pa_color-compose": {},
	}
	htmlTag = regexp.MustCompile(`<[^>]*>`)
)

// IsColorTaxonomy 是否为颜色类属性
func IsColorTaxonomy(taxonomy string) bool {
	_, ok := colorTaxonomies[taxonomy]
	return ok
}

// CardVariant 列表卡片色块
type CardVariant struct {
	Color       string `json:"color"`
	Hex         string `json:"hex"`
	Image       string `json:"image"`
	VariationID int64  `json:"variation_id"`
}

// ProductCard 列表卡片
type ProductCard struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	Price      string        `json:"price"`
	SalePrice  string        `json:"sale_price,omitempty"`
	Image      string        `json:"image"`
	HoverImage string        `json:"hover_image,omitempty"`
	Category   string        `json:"category,omitempty"`
	Variants   []CardVariant `json:"variants,omitempty"`
}

// UnitPrice 加购时使用的单价（特价优先）
func (p ProductCard) UnitPrice() string {
	if p.SalePrice != "" {
		return p.SalePrice
	}
	return p.Price
}

// OriginalUnitPrice 有特价时返回原价
func (p ProductCard) OriginalUnitPrice() string {
	if p.SalePrice != "" {
		return p.Price
	}
	return ""
}

// ProductDetail 商品详情
type ProductDetail struct {
	ProductCard
	Description     string                   `json:"description"`
	DescriptionHTML string                   `json:"description_html,omitempty"`
	Images          []string                 `json:"images"`
	CategoryID      int64                    `json:"category_id,omitempty"`
	CategorySlug    string                   `json:"category_slug"`
	Subcategory     string                   `json:"subcategory"`
	InStock         bool                     `json:"in_stock"`
	AttributeGroups []variant.AttributeGroup `json:"attribute_groups,omitempty"`
	VariationMap    []variant.VariationEntry `json:"variation_map,omitempty"`
}

// Resolver 为详情创建变体选择器
func (d ProductDetail) Resolver() *variant.Resolver {
	return variant.NewResolver(d.AttributeGroups, d.VariationMap)
}

// FormatPrice 最小货币单位价格转展示字符串；无法解析时返回空
func FormatPrice(amount string, minorUnit int, f money.Format) string {
	if strings.TrimSpace(amount) == "" {
		return ""
	}
	out, err := money.FormatMinorUnits(amount, minorUnit, f)
	if err != nil {
		return ""
	}
	return out
}

// MapProductCard 转为列表卡片
func MapProductCard(p Product, f money.Format) ProductCard {
	card := ProductCard{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Price: FormatPrice(p.Prices.RegularPrice, p.Prices.CurrencyMinorUnit, f),
	}
	if card.Price == "" {
		card.Price = FormatPrice(p.Prices.Price, p.Prices.CurrencyMinorUnit, f)
	}
	if p.OnSale {
		card.SalePrice = FormatPrice(p.Prices.SalePrice, p.Prices.CurrencyMinorUnit, f)
	}
	if len(p.Images) > 0 {
		card.Image = p.Images[0].Src
	}
	if len(p.Images) > 1 {
		card.HoverImage = p.Images[1].Src
	}
	if len(p.Categories) > 0 {
		card.Category = p.Categories[0].Name
	}
	card.Variants = cardVariants(p, card.Image)
	return card
}

// MapProductCards 批量转换
func MapProductCards(products []Product, f money.Format) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, MapProductCard(p, f))
	}
	return cards
}

// MapProductDetail 转为商品详情
func MapProductDetail(p Product, f money.Format) ProductDetail {
	detail := ProductDetail{
		ProductCard:     MapProductCard(p, f),
		Description:     strings.TrimSpace(htmlTag.ReplaceAllString(p.ShortDescription, "")),
		DescriptionHTML: p.Description,
		Images:          make([]string, 0, len(p.Images)),
		InStock:         p.IsInStock,
	}
	for _, img := range p.Images {
		detail.Images = append(detail.Images, img.Src)
	}
	if len(p.Categories) > 0 {
		detail.CategoryID = p.Categories[0].ID
		detail.CategorySlug = p.Categories[0].Slug
		detail.Subcategory = p.Categories[0].Name
	}
	detail.AttributeGroups, detail.VariationMap = attributesAndVariations(p)
	return detail
}

// cardVariants 主颜色轴上有对应变体的色块；一个都没有时取第一个变体
func cardVariants(p Product, image string) []CardVariant {
	if len(p.Variations) == 0 {
		return nil
	}
	var colorAttr *Attribute
	for i := range p.Attributes {
		if _, ok := cardSwatchTaxonomies[p.Attributes[i].Taxonomy]; ok && p.Attributes[i].HasVariations {
			colorAttr = &p.Attributes[i]
			break
		}
	}
	if colorAttr == nil || len(colorAttr.Terms) == 0 {
		return nil
	}
	var out []CardVariant
	for _, term := range colorAttr.Terms {
		for _, v := range p.Variations {
			if variationHas(v, colorAttr.Name, term.Slug) {
				out = append(out, CardVariant{
					Color:       term.Name,
					Hex:         variant.ResolveHex(term.Name),
					Image:       image,
					VariationID: v.ID,
				})
				break
			}
		}
	}
	if len(out) == 0 {
		name := "Default"
		if attrs := p.Variations[0].Attributes; len(attrs) > 0 && attrs[0].Value != "" {
			name = attrs[0].Value
		}
		out = append(out, CardVariant{
			Color:       name,
			Hex:         variant.ResolveHex(name),
			Image:       image,
			VariationID: p.Variations[0].ID,
		})
	}
	return out
}

func variationHas(v Variation, name, value string) bool {
	for _, attr := range v.Attributes {
		if attr.Name == name && attr.Value == value {
			return true
		}
	}
	return false
}

// attributesAndVariations 变体轴与变体映射；变体属性 name 为显示名，需转换为 taxonomy
func attributesAndVariations(p Product) ([]variant.AttributeGroup, []variant.VariationEntry) {
	if len(p.Variations) == 0 {
		return nil, nil
	}
	var groups []variant.AttributeGroup
	nameToTaxonomy := make(map[string]string)
	for _, attr := range p.Attributes {
		if !attr.HasVariations {
			continue
		}
		isColor := IsColorTaxonomy(attr.Taxonomy)
		group := variant.AttributeGroup{
			Taxonomy: attr.Taxonomy,
			Name:     attr.Name,
			Type:     variant.TypeButton,
			Options:  make([]variant.Option, 0, len(attr.Terms)),
		}
		if isColor {
			group.Type = variant.TypeColor
		}
		for _, term := range attr.Terms {
			opt := variant.Option{Name: term.Name, Slug: term.Slug}
			if isColor {
				opt.Hex = variant.ResolveHex(term.Name)
			}
			group.Options = append(group.Options, opt)
		}
		groups = append(groups, group)
		nameToTaxonomy[attr.Name] = attr.Taxonomy
	}
	if len(groups) == 0 {
		return nil, nil
	}
	entries := make([]variant.VariationEntry, 0, len(p.Variations))
	for _, v := range p.Variations {
		attrs := make(map[string]string, len(v.Attributes))
		for _, va := range v.Attributes {
			if taxonomy, ok := nameToTaxonomy[va.Name]; ok {
				attrs[taxonomy] = va.Value
			}
		}
		entries = append(entries, variant.VariationEntry{ID: v.ID, Attributes: attrs})
	}
	return groups, entries
}
