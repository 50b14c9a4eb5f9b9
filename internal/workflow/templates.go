package workflow

import "fmt"

// exercise pairs a sentence to correct with a multiple choice question on
// a related rule. Each half carries its own explanation.
type exercise struct {
	incorrect             string
	corrected             string
	correctionExplanation string
	stem                  string
	options               [4]string
	answer                string
	choiceExplanation     string
}

var exercises = map[Dimension][]exercise{
	Grammar: {
		{
			incorrect:             "Each of the students have finished their essay.",
			corrected:             "Each of the students has finished their essay.",
			correctionExplanation: "\"Each\" is singular, so it takes the singular verb \"has\".",
			stem:                  "Which sentence uses correct subject-verb agreement?",
			options:               [4]string{"A) The list of items are on the desk.", "B) The list of items is on the desk.", "C) The lists of item is on the desk.", "D) The list of items be on the desk."},
			answer:                "B",
			choiceExplanation:     "The subject is the singular noun \"list\", so the verb must be \"is\".",
		},
		{
			incorrect:             "Yesterday she go to the library and borrows two books.",
			corrected:             "Yesterday she went to the library and borrowed two books.",
			correctionExplanation: "\"Yesterday\" places both actions in the past, so both verbs take the past tense.",
			stem:                  "Which sentence keeps a consistent past tense?",
			options:               [4]string{"A) He walks in and sat down.", "B) He walked in and sits down.", "C) He walked in and sat down.", "D) He walk in and sat down."},
			answer:                "C",
			choiceExplanation:     "Verbs describing the same completed events should share the past tense.",
		},
		{
			incorrect:             "Me and him are going to the meeting.",
			corrected:             "He and I are going to the meeting.",
			correctionExplanation: "Both pronouns are subjects of \"are going\", so they take the subject forms \"He\" and \"I\".",
			stem:                  "Which sentence uses pronouns correctly?",
			options:               [4]string{"A) Her and me wrote the report.", "B) She and I wrote the report.", "C) Her and I wrote the report.", "D) She and me wrote the report."},
			answer:                "B",
			choiceExplanation:     "Pronouns acting as the subject take the subject form: I, he, she, we, they.",
		},
	},
	Punctuation: {
		{
			incorrect:             "However I think we should wait until Monday.",
			corrected:             "However, I think we should wait until Monday.",
			correctionExplanation: "An introductory word such as \"However\" is followed by a comma.",
			stem:                  "Which sentence is punctuated correctly?",
			options:               [4]string{"A) Its a long way to the station.", "B) It's a long way to the station.", "C) Its' a long way to the station.", "D) It,s a long way to the station."},
			answer:                "B",
			choiceExplanation:     "\"It's\" is the contraction of \"it is\" and needs an apostrophe.",
		},
		{
			incorrect:             "The dogs bowl is empty again.",
			corrected:             "The dog's bowl is empty again.",
			correctionExplanation: "A singular possessive takes an apostrophe before the s, as in \"dog's\".",
			stem:                  "Which sentence joins two independent clauses correctly?",
			options:               [4]string{"A) I was tired, I went to bed.", "B) I was tired I went to bed.", "C) I was tired; I went to bed.", "D) I was tired, and, I went to bed."},
			answer:                "C",
			choiceExplanation:     "Two complete clauses need a semicolon, a period, or a comma with a conjunction.",
		},
		{
			incorrect:             "When the meeting ended we went to lunch.",
			corrected:             "When the meeting ended, we went to lunch.",
			correctionExplanation: "A comma separates an introductory clause from the main clause.",
			stem:                  "Which sentence uses a question mark correctly?",
			options:               [4]string{"A) She asked whether I was coming?", "B) Are you coming to the meeting?", "C) I wonder if it will rain?", "D) He asked me what time it was?"},
			answer:                "B",
			choiceExplanation:     "Only direct questions end with a question mark; reported questions end with a period.",
		},
	},
	Tone: {
		{
			incorrect:             "Send me the report now.",
			corrected:             "Could you please send me the report when you have a moment?",
			correctionExplanation: "Phrasing a demand as a polite question keeps the request while respecting the reader.",
			stem:                  "Which request is most appropriate for an email to a manager?",
			options:               [4]string{"A) Give me tomorrow off.", "B) I need tomorrow off, deal with it.", "C) Would it be possible for me to take tomorrow off?", "D) Tomorrow I'm not coming."},
			answer:                "C",
			choiceExplanation:     "A polite question acknowledges the reader's authority and invites a response.",
		},
		{
			incorrect:             "This idea is totally dumb and won't work.",
			corrected:             "I have some concerns about whether this idea will work.",
			correctionExplanation: "Naming a concern instead of insulting the idea keeps the discussion open.",
			stem:                  "Which sentence disagrees most constructively?",
			options:               [4]string{"A) That's wrong.", "B) You clearly didn't think this through.", "C) I see it differently, and here is why.", "D) Whatever you say."},
			answer:                "C",
			choiceExplanation:     "Constructive disagreement focuses on the idea and offers reasoning.",
		},
		{
			incorrect:             "hey can u fix this asap",
			corrected:             "Hello, could you take a look at this when you get a chance?",
			correctionExplanation: "Workplace messages use full words, a greeting, and a request rather than a demand.",
			stem:                  "Which opening is most suitable for a formal letter?",
			options:               [4]string{"A) Hey there!", "B) Yo,", "C) Dear Ms. Patel,", "D) Sup,"},
			answer:                "C",
			choiceExplanation:     "Formal correspondence opens with a greeting and the recipient's title and name.",
		},
	},
}

// question renders the correction (pos 0) or multiple choice (pos 1) half.
func (ex exercise) question(issue TargetIssue, pos int) PracticeQuestion {
	q := PracticeQuestion{
		IssueType:     issue.Type,
		SpecificIssue: issue.Issue.Issue,
	}
	if pos == 0 {
		q.QuestionFormat = FormatCorrection
		q.QuestionText = fmt.Sprintf("Rewrite this sentence correctly: %q", ex.incorrect)
		q.CorrectAnswer = ex.corrected
		q.Explanation = ex.correctionExplanation
		return q
	}
	q.QuestionFormat = FormatMultipleChoice
	q.QuestionText = ex.stem
	q.CorrectAnswer = ex.answer
	q.Options = ex.options[:]
	q.Explanation = ex.choiceExplanation
	return q
}

// templatedQuestion returns the pos half of an exercise for issue. The
// search starts at an offset rotating with session and slot and takes the
// first exercise whose question text is not in used. When every exercise
// is used the rotation's own choice is returned.
func templatedQuestion(issue TargetIssue, pos, session, slot int, used map[string]struct{}) PracticeQuestion {
	bank := exercises[issue.Type]
	if len(bank) == 0 {
		bank = exercises[Grammar]
	}
	start := (max(session, 1) - 1 + slot) % len(bank)

	first := bank[start].question(issue, pos)
	for i := range bank {
		q := bank[(start+i)%len(bank)].question(issue, pos)
		if _, ok := used[normalize(q.QuestionText)]; !ok {
			return q
		}
	}
	return first
}
