package main

var sampleConversations = [][]string{
	{
		"hi, I wanted to talk to someone",
		"I have three exams next week and the workload is huge",
		"I keep thinking about the deadlines",
		"thanks, that helps a bit",
	},
	{
		"I've been feeling really lonely since I moved to the hostel",
		"I'm tired all the time and have no energy",
		"some days I just feel empty",
		"okay, I might try talking to my roommate",
	},
	{
		"I get so nervous before presentations",
		"my heart races and I feel like I can't breathe",
		"is that a panic attack?",
		"I'll try the breathing exercise",
	},
	{
		"everything feels hopeless lately",
		"I don't see the point anymore",
		"I've thought about ending my life",
		"can I talk to a counselor?",
	},
	{
		"had a good day today",
		"my project finally works",
		"feeling much better than last week",
	},
}

type sampleScreening struct {
	instrument string
	answers    map[string]int
}

var sampleScreenings = []sampleScreening{
	{"gad7", map[string]int{"q1": 2, "q2": 2, "q3": 1, "q4": 2, "q5": 1, "q6": 2, "q7": 1}},
	{"phq9", map[string]int{"q1": 2, "q2": 2, "q3": 3, "q4": 3, "q5": 1, "q6": 2, "q7": 1, "q8": 0, "q9": 0}},
	{"gad7", map[string]int{"q1": 3, "q2": 3, "q3": 3, "q4": 2, "q5": 2, "q6": 2, "q7": 2}},
	{"phq9", map[string]int{"q1": 3, "q2": 3, "q3": 2, "q4": 3, "q5": 2, "q6": 3, "q7": 2, "q8": 1, "q9": 2}},
	{"ghq", map[string]int{"q1": 0, "q2": 1, "q3": 0, "q4": 0, "q5": 1, "q6": 0}},
}
