package keyword

// stopWords holds functional words and generic pedagogy terms that make poor
// search keys. Entries are lower-case.
var stopWords = toSet(
	// English function words
	"a", "an", "the", "and", "or", "but", "nor", "so", "yet", "of", "in", "on", "at", "to", "for",
	"from", "by", "with", "without", "about", "into", "onto", "over", "under", "between", "through",
	"during", "before", "after", "above", "below", "up", "down", "out", "off", "as", "than", "then",
	"is", "are", "was", "were", "be", "been", "being", "am", "do", "does", "did", "have", "has", "had",
	"will", "would", "shall", "should", "can", "could", "may", "might", "must",
	"this", "that", "these", "those", "it", "its", "they", "them", "their", "we", "our", "you", "your",
	"he", "she", "his", "her", "i", "me", "my", "who", "whom", "which", "what", "when", "where", "why", "how",
	"all", "any", "each", "every", "some", "such", "other", "more", "most", "very", "also", "not", "no",
	"if", "while", "both", "either", "via", "per", "etc", "eg", "ie",
	// generic pedagogy terms
	"student", "students", "teacher", "teachers", "lesson", "lessons", "class", "classes", "classroom",
	"learn", "learning", "learned", "understand", "understanding", "able", "ability", "activity", "activities",
	"objective", "objectives", "goal", "goals", "procedure", "assessment", "extension", "section", "step", "steps",
	"minute", "minutes", "min", "hour", "hours", "use", "using", "used", "through", "group", "groups",
	"discuss", "discussion", "explain", "introduce", "introduction", "review", "complete", "provide",
	"knowledge", "skill", "skills", "teaching", "task", "tasks", "worksheet", "homework", "grade",
	// Chinese function words and pedagogy terms
	"的", "了", "和", "与", "及", "或", "在", "是", "对", "中", "等", "通过", "进行", "以及",
	"学生", "教师", "老师", "教学", "课堂", "课程", "活动", "目标", "学习", "理解", "掌握", "能够",
	"步骤", "评估", "方法", "延伸", "知识", "能力", "讨论", "介绍", "分钟", "课时",
)

func toSet(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// IsStopWord reports whether w (any case) is in the stop-word set.
func IsStopWord(w string) bool {
	return stopWords[lower(w)]
}
