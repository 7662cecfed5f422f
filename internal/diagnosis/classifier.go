package diagnosis

// Classifier is a rule-based mistake classifier.
// Returns the tag, or "" if the rule does not apply.
type Classifier interface {
	Name() string
	Classify(input ClassifyInput) Tag
}

// DefaultClassifiers returns classifiers in priority order. The task table
// wins over the domain fallback so that a mini-game response is never tagged
// by the domain it happens to exercise.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		TaskClassifier{},
		DomainClassifier{},
	}
}

// RunClassifiers executes classifiers in order and returns the first match
// together with the name of the classifier that produced it.
func RunClassifiers(classifiers []Classifier, input ClassifyInput) (Tag, string) {
	for _, c := range classifiers {
		if tag := c.Classify(input); tag != "" {
			return tag, c.Name()
		}
	}
	return "", ""
}

// Classify runs the default classifiers.
func Classify(input ClassifyInput) Tag {
	tag, _ := RunClassifiers(DefaultClassifiers(), input)
	return tag
}

// ForDomain returns the tag recorded for an incorrect assessment answer in
// the given domain. Unknown domains fall back to substitution.
func ForDomain(d Domain) Tag {
	return Classify(ClassifyInput{Domain: d})
}

// taskRule is one row of the mini-game mistake table.
type taskRule struct {
	wrongAction Tag
	timeout     Tag
}

var taskRules = map[Task]taskRule{
	TaskGoNoGo:       {wrongAction: TagImpulsiveClick, timeout: TagMissedTarget},
	TaskLetterFlip:   {wrongAction: TagLetterConfusion},
	TaskNumberSense:  {wrongAction: TagMagnitudeError},
	TaskPatternWatch: {wrongAction: TagFalseAlarm, timeout: TagMissedPatternBreak},
	TaskVisualMath:   {wrongAction: TagVisualQuantityMismatch},
}

// TaskClassifier tags mini-game responses by task kind and outcome.
type TaskClassifier struct{}

func (TaskClassifier) Name() string { return "task-rule" }

func (TaskClassifier) Classify(input ClassifyInput) Tag {
	rule, ok := taskRules[input.Task]
	if !ok {
		return ""
	}
	if input.Outcome == OutcomeTimeout {
		return rule.timeout
	}
	return rule.wrongAction
}

// TimesOut reports whether a task kind records a mistake when no action
// happens within the window.
func TimesOut(task Task) bool {
	return taskRules[task].timeout != ""
}

var domainTags = map[Domain]Tag{
	DomainReading:   TagLetterReversal,
	DomainMath:      TagCalculationError,
	DomainAttention: TagSequenceError,
}

// DomainClassifier tags assessment answers by question domain.
type DomainClassifier struct{}

func (DomainClassifier) Name() string { return "domain" }

func (DomainClassifier) Classify(input ClassifyInput) Tag {
	if input.Task != "" {
		return ""
	}
	if tag, ok := domainTags[input.Domain]; ok {
		return tag
	}
	return TagSubstitution
}
