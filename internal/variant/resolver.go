package variant

import "strings"

// IndexThreshold 变体数超过该值时使用可用性索引
const IndexThreshold = 64

// Resolver 多轴变体选择状态
type Resolver struct {
	groups    []AttributeGroup
	entries   []VariationEntry
	selection map[string]string
	index     *AvailabilityIndex
}

// NewResolver 创建选择器：单选项轴预选；仅一个有效组合时全部预选
func NewResolver(groups []AttributeGroup, entries []VariationEntry) *Resolver {
	r := &Resolver{
		groups:    groups,
		entries:   entries,
		selection: make(map[string]string, len(groups)),
	}
	if len(entries) > IndexThreshold {
		r.index = NewAvailabilityIndex(groups, entries)
	}
	for _, g := range groups {
		if len(g.Options) == 1 {
			r.selection[g.Taxonomy] = g.Options[0].Slug
		}
	}
	if len(entries) == 1 {
		for _, g := range groups {
			if v := entries[0].Attributes[g.Taxonomy]; v != "" {
				if _, ok := g.option(v); ok {
					r.selection[g.Taxonomy] = v
				}
			}
		}
	}
	return r
}

// Groups 轴定义
func (r *Resolver) Groups() []AttributeGroup {
	return r.groups
}

func (r *Resolver) group(axis string) (AttributeGroup, bool) {
	for _, g := range r.groups {
		if g.Taxonomy == axis {
			return g, true
		}
	}
	return AttributeGroup{}, false
}

// Select 选择某轴的选项
func (r *Resolver) Select(axis, slug string) error {
	g, ok := r.group(axis)
	if !ok {
		return ErrUnknownAxis
	}
	if _, ok := g.option(slug); !ok {
		return ErrUnknownOption
	}
	r.selection[axis] = slug
	return nil
}

// Clear 取消某轴的选择
func (r *Resolver) Clear(axis string) {
	delete(r.selection, axis)
}

// Selection 当前选择的副本
func (r *Resolver) Selection() map[string]string {
	out := make(map[string]string, len(r.selection))
	for k, v := range r.selection {
		out[k] = v
	}
	return out
}

// IsOptionAvailable 在其它轴当前选择不变的前提下，选择 axis=slug 是否仍有有效组合
func (r *Resolver) IsOptionAvailable(axis, slug string) bool {
	if _, ok := r.group(axis); !ok {
		return false
	}
	constraints := make(map[string]string, len(r.selection))
	for k, v := range r.selection {
		if k != axis {
			constraints[k] = v
		}
	}
	constraints[axis] = slug
	if r.index != nil {
		return r.index.Any(constraints)
	}
	return scanAny(r.entries, constraints)
}

func scanAny(entries []VariationEntry, constraints map[string]string) bool {
	for _, e := range entries {
		if entryAccepts(e, constraints) {
			return true
		}
	}
	return false
}

func entryAccepts(e VariationEntry, constraints map[string]string) bool {
	for axis, value := range constraints {
		if !e.accepts(axis, value) {
			return false
		}
	}
	return true
}

// MissingAxes 尚未选择的轴
func (r *Resolver) MissingAxes() []AttributeGroup {
	var missing []AttributeGroup
	for _, g := range r.groups {
		if _, ok := r.selection[g.Taxonomy]; !ok {
			missing = append(missing, g)
		}
	}
	return missing
}

// Resolved 是否已解析为唯一组合（无轴商品视为已解析）
func (r *Resolver) Resolved() bool {
	_, ok := r.ResolveMatch()
	return ok
}

// ResolveMatch 所有轴都已选择时返回匹配的变体；无轴商品返回零值且 ok 为 true。
// 数据异常导致多个匹配时取第一个，见 Ambiguous。
func (r *Resolver) ResolveMatch() (VariationEntry, bool) {
	if len(r.groups) == 0 {
		return VariationEntry{}, true
	}
	if len(r.MissingAxes()) > 0 {
		return VariationEntry{}, false
	}
	for _, e := range r.entries {
		if entryAccepts(e, r.selection) {
			return e, true
		}
	}
	return VariationEntry{}, false
}

// Ambiguous 当前完整选择是否匹配多个变体
func (r *Resolver) Ambiguous() bool {
	if len(r.groups) == 0 || len(r.MissingAxes()) > 0 {
		return false
	}
	matches := 0
	for _, e := range r.entries {
		if entryAccepts(e, r.selection) {
			matches++
		}
	}
	return matches > 1
}

// Validate 加购前校验
func (r *Resolver) Validate() error {
	if len(r.groups) == 0 {
		return nil
	}
	if missing := r.MissingAxes(); len(missing) > 0 {
		err := &IncompleteSelectionError{}
		for _, g := range missing {
			err.Axes = append(err.Axes, g.Taxonomy)
			err.Names = append(err.Names, g.Name)
		}
		return err
	}
	if _, ok := r.ResolveMatch(); !ok {
		return ErrNoMatch
	}
	return nil
}

// Label 已选项名称，按轴顺序以 " / " 连接
func (r *Resolver) Label() string {
	parts := make([]string, 0, len(r.groups))
	for _, g := range r.groups {
		slug, ok := r.selection[g.Taxonomy]
		if !ok {
			continue
		}
		if opt, ok := g.option(slug); ok {
			parts = append(parts, opt.Name)
		}
	}
	return strings.Join(parts, " / ")
}

// SwatchColor 第一个颜色轴上所选项的色值
func (r *Resolver) SwatchColor() string {
	for _, g := range r.groups {
		if g.Type != TypeColor {
			continue
		}
		slug, ok := r.selection[g.Taxonomy]
		if !ok {
			return ""
		}
		opt, _ := g.option(slug)
		if opt.Hex != "" {
			return opt.Hex
		}
		return ResolveHex(opt.Name)
	}
	return ""
}
