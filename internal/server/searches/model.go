package searches

import "time"

// Feature tags partition history per logical feature; listing one feature
// never returns another feature's entries.
type Feature string

const (
	FeatureNutrigenie     Feature = "Nutrigenie"
	FeatureCalorieTracker Feature = "CalorieTracker"
	FeatureMetaboTrack    Feature = "MetaboTrack"
	FeatureRecipeMaster   Feature = "RecipeMaster"
	FeatureSmartShopper   Feature = "SmartShopper"
)

// Features lists every known feature tag.
var Features = []Feature{
	FeatureNutrigenie,
	FeatureCalorieTracker,
	FeatureMetaboTrack,
	FeatureRecipeMaster,
	FeatureSmartShopper,
}

func (f Feature) Valid() bool {
	for _, known := range Features {
		if f == known {
			return true
		}
	}
	return false
}

// SearchRecord is one saved query/response pair. ID and Timestamp are
// assigned by the store at insert time; records are never updated.
type SearchRecord struct {
	ID        int64
	UserID    int64
	Feature   Feature
	Query     string
	Response  string
	Timestamp time.Time
}
