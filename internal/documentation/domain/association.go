package domain

import "time"

// Pair 员工与文档类型的组合键
type Pair struct {
	EmployeeID     uint
	DocumentTypeID uint
}

// RequirementEdge 员工必须提交某文档类型的要求，CreatedAt 即待提交起始时间
type RequirementEdge struct {
	EmployeeID     uint
	DocumentTypeID uint
	CreatedAt      time.Time

	// 关联查询带出的展示字段
	EmployeeName     string
	EmployeeDocument string
	EmployeeHiredAt  time.Time
	DocumentTypeName string
}

// Pair 返回组合键
func (r RequirementEdge) Pair() Pair {
	return Pair{EmployeeID: r.EmployeeID, DocumentTypeID: r.DocumentTypeID}
}

// EmployeeAssociations 员工当前关联的文档类型集合
type EmployeeAssociations struct {
	EmployeeID    uint
	EmployeeName  string
	DocumentTypes []AssociatedType
}

// AssociatedType 已关联的文档类型
type AssociatedType struct {
	ID           uint
	Name         string
	AssociatedAt time.Time
}

// BulkItem 批量操作中的单个员工条目
type BulkItem struct {
	EmployeeID      uint
	DocumentTypeIDs []uint
}

// FindDuplicatePairs 返回在整个批次中出现超过一次的组合，按首次重复出现的顺序
func FindDuplicatePairs(items []BulkItem) []Pair {
	seen := make(map[Pair]struct{})
	reported := make(map[Pair]struct{})
	var dups []Pair
	for _, item := range items {
		for _, typeID := range item.DocumentTypeIDs {
			p := Pair{EmployeeID: item.EmployeeID, DocumentTypeID: typeID}
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				continue
			}
			if _, ok := reported[p]; !ok {
				reported[p] = struct{}{}
				dups = append(dups, p)
			}
		}
	}
	return dups
}

// UniqueIDs 去重并保持原有顺序
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SplitIDs 按 known 将 ids 分为命中与未命中两组，均保持原顺序
func SplitIDs(ids []uint, known map[uint]bool) (hit, miss []uint) {
	for _, id := range ids {
		if known[id] {
			hit = append(hit, id)
		} else {
			miss = append(miss, id)
		}
	}
	return hit, miss
}
