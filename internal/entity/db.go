package entity

// Re-export common types from the common package for backward compatibility.

import (
	"github.com/iamahmet/karasuEmlak-sub001/internal/entity/common"
	"github.com/iamahmet/karasuEmlak-sub001/internal/entity/db"
)

// Type aliases for common types
type StringArray = common.StringArray
type JSONMap = common.JSONMap
type Meta = common.Meta
type BaseParams = common.BaseParams

// Database entity aliases
type DbMediaAsset = db.MediaAsset
type DbGenerationLog = db.GenerationLog
