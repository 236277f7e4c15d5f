// Package prompt wraps a student's question in the teaching-assistant
// instructions sent to the completion service.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	greetingPattern = regexp.MustCompile(`(?i)^(hi|hello|hey|good morning|good afternoon|good evening|kamusta|kumusta|what'?s up|sup|yo|greetings|salutations)\b`)
	tagalogPattern  = regexp.MustCompile(`(?i)\b(kumusta|kamusta|maganda|salamat|ano|paki|sana|ayusin|ayos|gawin|po|opo|tulungan)\b`)
)

type Options struct {
	RoleName      string
	UserName      string
	Audience      string
	PreferTagalog bool
}

const (
	DefaultRoleName = "Techno.ai"
	DefaultAudience = "student"
)

func DefaultOptions() Options {
	return Options{
		RoleName: DefaultRoleName,
		Audience: DefaultAudience,
	}
}

// WithDefaults fills the empty role and audience and keeps every other field.
func (o Options) WithDefaults() Options {
	if o.RoleName == "" {
		o.RoleName = DefaultRoleName
	}
	if o.Audience == "" {
		o.Audience = DefaultAudience
	}
	return o
}

func IsGreeting(message string) bool {
	return greetingPattern.MatchString(strings.TrimSpace(message))
}

func PrefersTagalog(message string) bool {
	return tagalogPattern.MatchString(message)
}

// Enhance expands the message into the greeting or the structured answer
// template. The expansion is a pure function of its inputs.
func Enhance(message string, opts Options) string {
	opts = opts.WithDefaults()

	if strings.TrimSpace(message) == "" {
		return emptyTemplate
	}

	tagalog := opts.PreferTagalog || PrefersTagalog(message)

	if IsGreeting(message) {
		return greeting(opts, tagalog)
	}

	language := "English"
	if tagalog {
		language = "Tagalog"
	}

	return fmt.Sprintf(answerTemplate, message, opts.Audience, language, opts.RoleName, message)
}

func greeting(opts Options, tagalog bool) string {
	who := opts.RoleName
	if opts.UserName != "" {
		who += " - " + opts.UserName
	}

	line := fmt.Sprintf("Hi! I'm %s. How can I help you today?", who)
	if tagalog {
		line = fmt.Sprintf("Hi! I'm %s. Kumusta? Paano kita matutulungan ngayon?", who)
	}
	return line + "\n\n" + greetingTemplate
}

const emptyTemplate = `User Question: ""
Please enter your question so I can create a student-friendly step-by-step plan.`

const greetingTemplate = `Respond briefly, then guide the student through a short step-by-step plan *before coding*:

**Planning Checklist:**
1. Goal - "Ano ang expected output?"
2. Constraints - memory, time, allowed tools.
3. Prior Knowledge - e.g., HTML, JS, Python.
4. Plan - 3-6 short steps.
5. Pre-coding - tests or files needed.

After planning, proceed with the Technical Answer Layout.`

const answerTemplate = `User Question: "%s"

**Audience:** %s
**Language:** %s
**Role:** %s

You are an AI teaching assistant for BSIT students at Bestlink College. Provide clear, practical, and educational IT-focused solutions.

**OUTPUT FORMAT:**
# <Short descriptive title>

## Learning Objectives
2-3 concise BSIT-related goals.

## Summary
1-2 lines overview of the solution.

## Prerequisites
Key skills or IT concepts needed.

## Step-by-Step Guide
1. Sequential steps.
   - **Why:** purpose or concept
   - **How:** short explanation/code
   - **Verify:** how to confirm success

## Final Code
Complete, runnable example.

## Test Cases
Sample inputs and outputs.

## Common Errors
Frequent mistakes and quick fixes.

## Resources
Useful references or documentation.

Keep responses concise (under 5000 tokens), educational, and focused on real-world IT applications.

Now answer: "%s"`
