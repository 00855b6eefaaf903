package variant

const (
	// TypeColor 颜色轴，驱动色块与展示图
	TypeColor = "color"
	// TypeButton 普通按钮轴
	TypeButton = "button"
)

// Option 轴上的一个可选项
type Option struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Hex  string `json:"hex,omitempty"`
}

// AttributeGroup 一个可选轴（如 颜色 / 方向 / 扶手颜色）
type AttributeGroup struct {
	Taxonomy string   `json:"taxonomy"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Options  []Option `json:"options"`
}

// VariationEntry 后端定义的一个有效组合；空值表示该轴接受任意选项
type VariationEntry struct {
	ID         int64             `json:"id"`
	Attributes map[string]string `json:"attributes"`
}

func (e VariationEntry) accepts(axis, value string) bool {
	v, ok := e.Attributes[axis]
	if !ok || v == "" {
		return true
	}
	return v == value
}

func (g AttributeGroup) option(slug string) (Option, bool) {
	for _, opt := range g.Options {
		if opt.Slug == slug {
			return opt, true
		}
	}
	return Option{}, false
}
