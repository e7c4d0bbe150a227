package entity

import "strings"

// 媒体资产关联的内容实体类型。
const (
	EntityTypeListing      = "listing"
	EntityTypeArticle      = "article"
	EntityTypeNews         = "news"
	EntityTypeNeighborhood = "neighborhood"
	EntityTypeOther        = "other"
)

// NormalizeEntityType 将任意输入归一化为受支持的实体类型，未知类型归入 other。
func NormalizeEntityType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case EntityTypeListing:
		return EntityTypeListing
	case EntityTypeArticle:
		return EntityTypeArticle
	case EntityTypeNews:
		return EntityTypeNews
	case EntityTypeNeighborhood:
		return EntityTypeNeighborhood
	default:
		return EntityTypeOther
	}
}
