package core

// AgeGroupProfile 描述一个儿童年龄段的内容约束与标签画像。
type AgeGroupProfile struct {
	// MaxDurationSeconds 该年龄段可接受的最长时长（秒）
	MaxDurationSeconds int64
	// PreferredTags 偏好标签（已归一化为小写）
	PreferredTags []string
	// EducationalTags 教育类标签
	EducationalTags []string
}

// 内置年龄段画像。
var ageGroupProfiles = map[string]AgeGroupProfile{
	"toddler": {
		MaxDurationSeconds: 5 * 60,
		PreferredTags:      []string{"toddler", "baby", "nursery", "colors", "shapes", "lullaby"},
		EducationalTags:    []string{"abc", "numbers", "counting", "learning", "alphabet"},
	},
	"preschool": {
		MaxDurationSeconds: 10 * 60,
		PreferredTags:      []string{"preschool", "kindergarten", "storytime", "letters", "phonics"},
		EducationalTags:    []string{"counting", "alphabet", "reading", "learning", "math"},
	},
	"early": {
		MaxDurationSeconds: 15 * 60,
		PreferredTags:      []string{"early", "kids", "reading", "science", "animals", "art"},
		EducationalTags:    []string{"science", "math", "reading", "history", "geography"},
	},
	"older": {
		MaxDurationSeconds: 20 * 60,
		PreferredTags:      []string{"tween", "teens", "tutorial", "stem", "coding", "music"},
		EducationalTags:    []string{"stem", "coding", "history", "geography", "tutorial"},
	},
}

// LookupAgeGroup 按名称取年龄段画像，未知名称回退到 preschool。
func LookupAgeGroup(name string) AgeGroupProfile {
	if p, ok := ageGroupProfiles[name]; ok {
		return p
	}
	return ageGroupProfiles["preschool"]
}
