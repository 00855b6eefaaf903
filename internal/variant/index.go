package variant

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) or(other bitset) bitset {
	out := make(bitset, len(b))
	for i := range b {
		out[i] = b[i] | other[i]
	}
	return out
}

func (b bitset) andInPlace(other bitset) {
	for i := range b {
		b[i] &= other[i]
	}
}

func (b bitset) empty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

// AvailabilityIndex 按 (轴, 值) 索引变体，用于大量组合时的可用性判断
type AvailabilityIndex struct {
	size     int
	byValue  map[string]map[string]bitset
	wildcard map[string]bitset
}

// NewAvailabilityIndex 构建索引
func NewAvailabilityIndex(groups []AttributeGroup, entries []VariationEntry) *AvailabilityIndex {
	idx := &AvailabilityIndex{
		size:     len(entries),
		byValue:  make(map[string]map[string]bitset, len(groups)),
		wildcard: make(map[string]bitset, len(groups)),
	}
	for _, g := range groups {
		idx.byValue[g.Taxonomy] = make(map[string]bitset)
		idx.wildcard[g.Taxonomy] = newBitset(len(entries))
	}
	for i, e := range entries {
		for axis := range idx.byValue {
			v := e.Attributes[axis]
			if v == "" {
				idx.wildcard[axis].set(i)
				continue
			}
			set, ok := idx.byValue[axis][v]
			if !ok {
				set = newBitset(len(entries))
				idx.byValue[axis][v] = set
			}
			set.set(i)
		}
	}
	return idx
}

// Any 是否存在满足全部约束的变体
func (idx *AvailabilityIndex) Any(constraints map[string]string) bool {
	if idx.size == 0 {
		return false
	}
	acc := newBitset(idx.size)
	for i := 0; i < idx.size; i++ {
		acc.set(i)
	}
	for axis, value := range constraints {
		values, ok := idx.byValue[axis]
		if !ok {
			continue
		}
		candidates := idx.wildcard[axis]
		if set, ok := values[value]; ok {
			candidates = candidates.or(set)
		}
		acc.andInPlace(candidates)
		if acc.empty() {
			return false
		}
	}
	return !acc.empty()
}
