package model

import (
	"fmt"
	"time"
)

// NoData is the answer shown for a question whose query had no data.
const NoData = "no data"

// Answer is one line of the summary: a question and its short answer.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Summary is the condensed, human-readable view of an AnalysisReport: one
// short answer per question, in a fixed order.
type Summary struct {
	DataFile     string    `json:"data_file"`
	DateAnalyzed time.Time `json:"date_analyzed"`
	RecordCount  int       `json:"record_count"`
	Answers      []Answer  `json:"answers"`
	Warnings     int       `json:"warnings"`
	Error        string    `json:"error,omitempty"`
}

// Questions, in summary order.
const (
	QuestionGender      = "Most commonly awarded gender"
	QuestionCountry     = "Most commonly awarded birth country"
	QuestionUSRatio     = "Decade with the highest ratio of US-born winners"
	QuestionFemale      = "Decade and category with the highest proportion of female laureates"
	QuestionFirstFemale = "First woman to receive a Nobel Prize"
	QuestionRepeat      = "Individuals or organizations that won more than once"
)

// NewSummary condenses report into one answer per question.
func NewSummary(report *AnalysisReport) *Summary {
	s := &Summary{
		DataFile:     report.DataFile,
		DateAnalyzed: report.DateAnalyzed,
		RecordCount:  report.RecordCount,
		Warnings:     len(report.Warnings),
		Error:        report.ErrorMessage,
	}
	res := report.Results

	gender := NoData
	if top, ok := res.Gender.Top(); ok {
		gender = fmt.Sprintf("%s (%d of %d)", top.Sex, top.Count, res.Gender.Total)
	}
	s.add(QuestionGender, gender)

	country := NoData
	if res.TopBirthCountry != nil {
		country = fmt.Sprintf("%s (%d)", res.TopBirthCountry.Country, res.TopBirthCountry.Count)
	}
	s.add(QuestionCountry, country)

	ratio := NoData
	if res.USBornRatio != nil {
		ratio = fmt.Sprintf("%ds (%.3f)", res.USBornRatio.Best.Decade, res.USBornRatio.Best.Ratio)
	}
	s.add(QuestionUSRatio, ratio)

	female := NoData
	if res.FemaleProportion != nil {
		best := res.FemaleProportion.Best
		female = fmt.Sprintf("%ds %s (%d%%)", best.Decade, best.Category, best.Percent())
	}
	s.add(QuestionFemale, female)

	first := NoData
	if res.FirstFemale != nil {
		first = fmt.Sprintf("%s (%s, %d)", res.FirstFemale.FullName, res.FirstFemale.Category, res.FirstFemale.Year)
	}
	s.add(QuestionFirstFemale, first)

	repeat := NoData
	if len(res.RepeatWinners) > 0 {
		repeat = ""
		for i, w := range res.RepeatWinners {
			if i > 0 {
				repeat += ", "
			}
			repeat += fmt.Sprintf("%s (%d)", w.FullName, w.Count)
		}
	}
	s.add(QuestionRepeat, repeat)

	return s
}

func (s *Summary) add(question, answer string) {
	s.Answers = append(s.Answers, Answer{Question: question, Answer: answer})
}

// Answer returns the answer to question, or "" if it is not in the summary.
func (s *Summary) Answer(question string) string {
	for _, a := range s.Answers {
		if a.Question == question {
			return a.Answer
		}
	}
	return ""
}
