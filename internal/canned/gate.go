// Package canned answers identity questions (owner, API, name) with fixed
// replies before any AI call is made.
package canned

import (
	"fmt"
	"regexp"
)

// Category names, in evaluation order
const (
	CategoryOwner      = "owner"
	CategoryAPI        = "api"
	CategoryName       = "name"
	CategoryNameOrigin = "name-origin"
)

// Identity used when none is configured
const (
	DefaultBotName = "Shiva"
	DefaultOwner   = "xcho_"
)

// Answer is a canned reply and the category that produced it
type Answer struct {
	Category string
	Reply    string
}

type rule struct {
	pattern *regexp.Regexp
	reply   string
}

type category struct {
	name  string
	rules []rule
}

// Gate is an ordered set of pattern categories. It is immutable after
// construction and safe for concurrent use.
type Gate struct {
	categories []category
}

func rules(reply string, patterns ...string) []rule {
	out := make([]rule, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, rule{pattern: regexp.MustCompile("(?i)" + p), reply: reply})
	}
	return out
}

// OwnerReply is the answer to owner questions
func OwnerReply(owner string) string {
	return fmt.Sprintf("My owner is %s.", owner)
}

// APIReply is the answer to questions about the backing API
func APIReply(owner string) string {
	return fmt.Sprintf("I use a private API by %s.", owner)
}

// NameReply is the answer to name questions
func NameReply(botName string) string {
	return fmt.Sprintf("My name is %s.", botName)
}

// NameOriginReply is the answer to questions about where the name comes from
func NameOriginReply(botName, owner string) string {
	return fmt.Sprintf("I'm named after %s, the Hindu god of transformation. %s picked it.", botName, owner)
}

// NewGate builds the gate with the canonical owner, API, name and name-origin
// patterns. Empty botName or owner fall back to the defaults.
func NewGate(botName, owner string) *Gate {
	if botName == "" {
		botName = DefaultBotName
	}
	if owner == "" {
		owner = DefaultOwner
	}
	quotedName := regexp.QuoteMeta(botName)
	quotedOwner := regexp.QuoteMeta(owner)

	return &Gate{
		categories: []category{
			{
				name: CategoryOwner,
				rules: rules(OwnerReply(owner),
					`who('?s| is) your owner`,
					`who owns you`,
					`who is huzaifa`,
					`who is `+quotedOwner,
					`owner\??$`,
				),
			},
			{
				name: CategoryAPI,
				rules: rules(APIReply(owner),
					`what api`,
					`which api`,
					`api you use`,
					`backend.*api`,
				),
			},
			{
				name: CategoryName,
				rules: rules(NameReply(botName),
					`what('?s| is) your name`,
					`who are you`,
					`^((what('?s| is)|tell me|say) )?your name\??$`,
				),
			},
			{
				name: CategoryNameOrigin,
				rules: rules(NameOriginReply(botName, owner),
					`why.*(called|named) `+quotedName,
					`where does your name come from`,
					`meaning of your name`,
					`who named you`,
					`origin of your name`,
				),
			},
		},
	}
}

// Classify returns the canned answer for text, if any category matches.
// Categories are tried in order and the first matching rule wins.
func (g *Gate) Classify(text string) (Answer, bool) {
	for _, c := range g.categories {
		for _, r := range c.rules {
			if r.pattern.MatchString(text) {
				return Answer{Category: c.name, Reply: r.reply}, true
			}
		}
	}
	return Answer{}, false
}
