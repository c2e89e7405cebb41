package triage

// ResponseKind tells the client how to render an agent reply
type ResponseKind string

const (
	KindCrisis  ResponseKind = "crisis"
	KindSupport ResponseKind = "support"
	KindNormal  ResponseKind = "normal"
)

// Resource is a link or contact attached to an agent reply
type Resource struct {
	Type        string `json:"type" bson:"type"`
	Name        string `json:"name" bson:"name"`
	URLOrNumber string `json:"urlOrNumber,omitempty" bson:"urlOrNumber,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// ResponseTemplate is the agent's structured reply for a classified message
type ResponseTemplate struct {
	Body              string       `json:"body" bson:"body"`
	Kind              ResponseKind `json:"kind" bson:"kind"`
	Resources         []Resource   `json:"resources" bson:"resources"`
	FollowUpQuestions []string     `json:"followUpQuestions" bson:"followUpQuestions"`
}

// Crisis contacts
const (
	SuicidePreventionHelpline = "9152987821"
	KashmirHelpline           = "01942506062"
	EmergencyServicesNumber   = "112"
)

// Hotlines returns the crisis contacts attached to every crisis reply
func Hotlines() []Resource {
	return []Resource{
		{Type: "hotline", Name: "Kashmir Helpline", URLOrNumber: KashmirHelpline},
		{Type: "emergency", Name: "Emergency Services", URLOrNumber: EmergencyServicesNumber},
	}
}

var templates = map[Topic]ResponseTemplate{
	TopicCrisis: {
		Body: "I'm very concerned about your safety. Please reach out for immediate help: " +
			"Call National Suicide Prevention Helpline at " + SuicidePreventionHelpline +
			" or Emergency Services at " + EmergencyServicesNumber +
			". Would you like me to connect you with a crisis counselor right now?",
		Kind:      KindCrisis,
		Resources: Hotlines(),
	},
	TopicAnxiety: {
		Body: "I can hear that you're feeling anxious. Let's try a grounding technique: " +
			"Name 5 things you can see, 4 you can touch, 3 you can hear, 2 you can smell, " +
			"and 1 you can taste. This can help bring you back to the present moment.",
		Kind: KindSupport,
		Resources: []Resource{
			{Type: "exercise", Name: "Breathing Exercise", Description: "4-7-8 breathing technique"},
			{Type: "audio", Name: "Relaxation Audio (Hindi)", URLOrNumber: "/resources/relaxation-hindi.mp3"},
		},
		FollowUpQuestions: []string{
			"Would you like to try the breathing exercise?",
			"Can you tell me what's making you feel anxious?",
			"Would you like to book a session with a counselor?",
		},
	},
	TopicDepression: {
		Body: "I understand you're going through a difficult time. Depression can make everything " +
			"feel overwhelming, but you're not alone. Small steps matter - even reaching out here " +
			"shows your strength.",
		Kind: KindSupport,
		Resources: []Resource{
			{Type: "article", Name: "Understanding Depression (Urdu)", URLOrNumber: "/resources/depression-urdu"},
			{Type: "video", Name: "Daily Mood Lifting Activities", URLOrNumber: "/resources/mood-activities"},
		},
		FollowUpQuestions: []string{
			"When did you start feeling this way?",
			"Have you been able to talk to anyone about this?",
			"Would you like help connecting with a counselor?",
		},
	},
	TopicStress: {
		Body: "Academic stress is very common among students in J&K. You're not alone in feeling " +
			"this way. Let's work on some strategies to manage this stress effectively.",
		Kind: KindSupport,
		Resources: []Resource{
			{Type: "guide", Name: "Study Stress Management (Kashmir)", URLOrNumber: "/resources/study-stress-kashmir"},
			{Type: "video", Name: "Time Management for Students", URLOrNumber: "/resources/time-management"},
		},
		FollowUpQuestions: []string{
			"What specific aspects of your studies are most stressful?",
			"How are you currently managing your workload?",
			"Would you like tips specific to your course?",
		},
	},
	TopicNone: {
		Body: "Thank you for sharing with me. I'm here to listen and support you. " +
			"Can you tell me more about what's on your mind today?",
		Kind: KindNormal,
		FollowUpQuestions: []string{
			"How has your day been so far?",
			"Is there something specific you'd like to talk about?",
			"How can I best support you right now?",
		},
	},
}

// Compose picks the reply template for a classification. The crisis flag
// overrides the topic so a disagreeing result still gets the safety reply.
func Compose(result ClassificationResult) ResponseTemplate {
	key := result.Topic
	if result.Crisis {
		key = TopicCrisis
	}
	tmpl, ok := templates[key]
	if !ok {
		tmpl = templates[TopicNone]
	}
	return tmpl.clone()
}

func (t ResponseTemplate) clone() ResponseTemplate {
	out := ResponseTemplate{
		Body:              t.Body,
		Kind:              t.Kind,
		Resources:         make([]Resource, len(t.Resources)),
		FollowUpQuestions: make([]string, len(t.FollowUpQuestions)),
	}
	copy(out.Resources, t.Resources)
	copy(out.FollowUpQuestions, t.FollowUpQuestions)
	return out
}
