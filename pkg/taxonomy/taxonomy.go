// Package taxonomy defines the fixed category structure for the advice
// knowledge base. The table is loaded once at process start and never
// mutated; every consumer (normalizer, signal extractors, classifier)
// reads it through the lookup functions below.
package taxonomy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category describes one top-level advice category.
type Category struct {
	Name          string
	Subcategories []string
	Keywords      []string
	Prompt        string
}

// DefaultCategory is the fallback bucket used when no classification
// signal produces a score.
const DefaultCategory = "General Curiosity & Learning"

// DefaultSubcategory is the fallback subcategory within DefaultCategory.
const DefaultSubcategory = "Life Advice (general guidance)"

var categories = []Category{
	{
		Name: "Emotional Support",
		Subcategories: []string{
			"Sadness / Depression",
			"Anxiety / Stress / Overthinking",
			"Loneliness / Isolation",
			"Anger / Frustration",
			"Self-Doubt / Insecurity",
			"Fear (exam fear, failure fear, future fear)",
		},
		Keywords: []string{
			"sad", "depression", "depressed", "lonely", "alone", "anxious", "stress",
			"worried", "overthinking", "angry", "frustrated", "insecure", "doubt",
			"fear", "scared", "afraid", "nervous", "panic", "helpless", "hopeless",
		},
		Prompt: "This text seems to be about emotional distress, mental health struggles, feelings of sadness, anxiety, loneliness, anger, or fear.",
	},
	{
		Name: "Motivation & Self-Growth",
		Subcategories: []string{
			"Demotivation / Laziness",
			"Building Discipline & Consistency",
			"Time Management & Productivity",
			"Focus & Concentration",
			"Learning New Skills / Knowledge",
			"Self-Confidence & Courage",
			"Handling Criticism",
		},
		Keywords: []string{
			"motivation", "lazy", "procrastination", "discipline", "consistency",
			"productivity", "focus", "concentration", "learning", "skills",
			"confidence", "courage", "criticism", "growth", "improvement",
		},
		Prompt: "This text appears to be about motivation, self-improvement, building habits, productivity, learning, or personal development.",
	},
	{
		Name: "Failures & Mistakes",
		Subcategories: []string{
			"Academic Failure (exam, grades)",
			"Career / Job Failure",
			"Business / Startup Failure",
			"Regret about Past Mistakes",
			"Learning from Mistakes",
			"Fear of Trying Again",
		},
		Keywords: []string{
			"failure", "failed", "mistake", "regret", "exam", "grades", "career",
			"job", "business", "startup", "trying again", "second chance",
		},
		Prompt: "This text relates to failures, mistakes, regrets, academic/career setbacks, or learning from past experiences.",
	},
	{
		Name: "Decision Making & Life Choices",
		Subcategories: []string{
			"Career Choices (job vs higher studies)",
			"Relationship Choices",
			"Risk Taking vs Playing Safe",
			"Confusion / Indecisiveness",
			"Choosing Priorities in Life",
		},
		Keywords: []string{
			"decision", "choice", "choose", "confused", "indecisive", "career",
			"relationship", "risk", "safe", "priorities", "dilemma",
		},
		Prompt: "This text involves decision making, life choices, career decisions, relationship choices, or feeling confused about options.",
	},
	{
		Name: "Relationships & Social Life",
		Subcategories: []string{
			"Family Conflicts (parents, siblings)",
			"Friendship Issues",
			"Breakups / Love Failure",
			"Marriage / Partnership Problems",
			"Trust Issues / Betrayal",
			"Social Anxiety / Fear of People",
		},
		Keywords: []string{
			"family", "parents", "siblings", "friends", "friendship", "breakup",
			"love", "relationship", "marriage", "partner", "trust", "betrayal",
			"social", "people", "introvert",
		},
		Prompt: "This text is about relationships, family conflicts, friendship issues, love problems, social anxiety, or interpersonal challenges.",
	},
	{
		Name: "Career & Studies",
		Subcategories: []string{
			"Exam Preparation Stress",
			"Study Techniques & Focus",
			"Choosing Career Path (engineering, medical, arts, etc.)",
			"Job Search Stress",
			"Workplace Pressure / Toxic Work Environment",
			"Balancing Work & Life",
		},
		Keywords: []string{
			"exam", "study", "studying", "career", "job", "work", "workplace",
			"engineering", "medical", "arts", "pressure", "toxic", "balance",
		},
		Prompt: "This text relates to career, studies, exams, job search, workplace issues, or educational concerns.",
	},
	{
		Name: "Health & Lifestyle",
		Subcategories: []string{
			"Physical Health Issues",
			"Mental Health Awareness",
			"Fitness & Exercise Motivation",
			"Sleep Problems",
			"Addiction (phone, social media, smoking, alcohol, etc.)",
		},
		Keywords: []string{
			"health", "fitness", "exercise", "sleep", "addiction", "phone",
			"social media", "smoking", "alcohol", "mental health", "physical",
		},
		Prompt: "This text is about physical health, mental wellness, fitness, sleep, addictions, or lifestyle choices.",
	},
	{
		Name: "Money & Finance",
		Subcategories: []string{
			"Financial Stress",
			"Saving & Budgeting",
			"Bad Financial Decisions",
			"Greed / Over-Spending",
			"Career Growth for Better Earnings",
		},
		Keywords: []string{
			"money", "financial", "finance", "saving", "budget", "spending",
			"earnings", "salary", "income", "debt", "investment",
		},
		Prompt: "This text deals with financial matters, money problems, budgeting, earnings, or financial decisions.",
	},
	{
		Name: "Spiritual / Philosophical",
		Subcategories: []string{
			"Meaning of Life",
			"Patience & Acceptance",
			"Gratitude & Humility",
			"Inner Peace & Meditation",
			"Karma & Destiny",
			"Hope & Faith in Future",
		},
		Keywords: []string{
			"spiritual", "meaning", "life", "patience", "acceptance", "gratitude",
			"meditation", "karma", "destiny", "hope", "faith", "peace", "philosophy",
		},
		Prompt: "This text has spiritual or philosophical content about life's meaning, meditation, karma, faith, or inner peace.",
	},
	{
		Name: DefaultCategory,
		Subcategories: []string{
			"Wanting to Learn Something New",
			"Curiosity about World / People",
			DefaultSubcategory,
			"Improving Communication Skills",
			"Developing Hobbies & Creativity",
		},
		Keywords: []string{
			"learn", "learning", "curiosity", "curious", "advice", "guidance",
			"communication", "skills", "hobbies", "creativity", "knowledge",
		},
		Prompt: "This text shows curiosity, desire to learn, seeking general advice, or developing new skills.",
	},
	{
		Name: "Smoking & Drinking Habits",
		Subcategories: []string{
			"Health Impact",
			"Mental Health & Stress",
			"Addiction & Self-Control",
			"Alternative Solutions",
		},
		Keywords: []string{
			"smoking", "cigarette", "tobacco", "drinking", "alcohol", "beer",
			"wine", "addiction", "quit", "health impact", "lungs", "liver",
		},
		Prompt: "This text specifically mentions smoking, drinking alcohol, or related health and addiction concerns.",
	},
	{
		Name: "Masturbation & Sexual Health",
		Subcategories: []string{
			"Physical Health Myths & Facts",
			"Mental & Emotional Effects",
			"Self-Control & Balance",
			"Spiritual Perspective",
		},
		Keywords: []string{
			"masturbation", "sexual", "sex", "urges", "control", "guilt",
			"brahmacharya", "energy", "spiritual", "myths", "facts",
		},
		Prompt: "This text deals with sexual health, masturbation, related myths, emotional effects, or spiritual perspectives.",
	},
}

var (
	byName          map[string]*Category
	keywordPatterns map[string][]*regexp.Regexp // category name -> compiled keyword patterns
)

func init() {
	byName = make(map[string]*Category, len(categories))
	keywordPatterns = make(map[string][]*regexp.Regexp, len(categories))

	for i := range categories {
		c := &categories[i]
		if len(c.Subcategories) == 0 || len(c.Keywords) == 0 {
			panic(fmt.Sprintf("taxonomy: category %q must declare at least one subcategory and one keyword", c.Name))
		}
		seen := make(map[string]bool, len(c.Subcategories))
		for _, sub := range c.Subcategories {
			if seen[sub] {
				panic(fmt.Sprintf("taxonomy: duplicate subcategory %q in category %q", sub, c.Name))
			}
			seen[sub] = true
		}
		byName[c.Name] = c

		patterns := make([]*regexp.Regexp, len(c.Keywords))
		for j, kw := range c.Keywords {
			patterns[j] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
		keywordPatterns[c.Name] = patterns
	}
}

// Categories returns all category names in declaration order.
func Categories() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the category with the given name.
func Lookup(name string) (Category, bool) {
	c, ok := byName[name]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// Subcategories returns the declared subcategories for a category, or all
// subcategories across the taxonomy when name is empty.
func Subcategories(name string) []string {
	if name != "" {
		if c, ok := byName[name]; ok {
			return append([]string(nil), c.Subcategories...)
		}
		return nil
	}
	var all []string
	for _, c := range categories {
		all = append(all, c.Subcategories...)
	}
	return all
}

// Keywords returns the keyword list declared for a category.
func Keywords(name string) []string {
	if c, ok := byName[name]; ok {
		return append([]string(nil), c.Keywords...)
	}
	return nil
}

// Prompt returns the descriptive prompt for a category. Unknown categories
// get a generic prompt so embedding texts can always be built.
func Prompt(name string) string {
	if c, ok := byName[name]; ok {
		return c.Prompt
	}
	return fmt.Sprintf("This is about %s", name)
}

// CategoryForSubcategory finds the category a subcategory is declared
// under. Returns "" when the subcategory is unknown.
func CategoryForSubcategory(sub string) string {
	for _, c := range categories {
		for _, s := range c.Subcategories {
			if s == sub {
				return c.Name
			}
		}
	}
	return ""
}

// ValidateAssignment reports whether every subcategory belongs to the
// given category. A false return with an unknown category is
// indistinguishable from a bad subcategory on purpose; callers that need
// the offending value use classification.ValidateClassification.
func ValidateAssignment(category string, subcategories []string) bool {
	c, ok := byName[category]
	if !ok {
		return false
	}
	declared := make(map[string]bool, len(c.Subcategories))
	for _, s := range c.Subcategories {
		declared[s] = true
	}
	for _, s := range subcategories {
		if !declared[s] {
			return false
		}
	}
	return true
}

// KeywordScore pairs a category with its keyword match count.
type KeywordScore struct {
	Category string
	Count    int
}

// MatchKeywords counts, per category, how many of its declared keywords
// occur in the text (case-insensitive, word-boundary). Categories below
// threshold are dropped. Results are ordered by count descending, ties by
// category name so the output is deterministic.
func MatchKeywords(text string, threshold int) []KeywordScore {
	var scores []KeywordScore
	for _, c := range categories {
		count := 0
		for _, p := range keywordPatterns[c.Name] {
			if p.MatchString(text) {
				count++
			}
		}
		if count >= threshold {
			scores = append(scores, KeywordScore{Category: c.Name, Count: count})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Count != scores[j].Count {
			return scores[i].Count > scores[j].Count
		}
		return scores[i].Category < scores[j].Category
	})
	return scores
}

// FormatSubcategories serializes subcategories for storage as a single
// comma-joined string. An empty list serializes to "".
func FormatSubcategories(subcategories []string) string {
	return strings.Join(subcategories, ",")
}

// ParseSubcategories parses the comma-joined storage form back into a
// list. "" parses to an empty list; entries are trimmed and blanks dropped.
func ParseSubcategories(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
