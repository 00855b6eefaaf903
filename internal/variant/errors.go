package variant

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownAxis 轴不存在
	ErrUnknownAxis = errors.New("unknown attribute axis")
	// ErrUnknownOption 选项不存在
	ErrUnknownOption = errors.New("unknown attribute option")
	// ErrNoMatch 选择完整但没有对应的变体
	ErrNoMatch = errors.New("selection matches no variation")
)

// IncompleteSelectionError 存在未选择的轴
type IncompleteSelectionError struct {
	Axes  []string
	Names []string
}

func (e *IncompleteSelectionError) Error() string {
	return "incomplete variant selection: " + strings.Join(e.Names, ", ")
}
