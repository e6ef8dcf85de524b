package config

import "github.com/goccy/go-yaml"

type Mail struct {
	ResendKey InterpolatedString `yaml:"resendKey"`
	From      InterpolatedString `yaml:"from"`
	ReplyTo   InterpolatedString `yaml:"replyTo"`
}

func NewDefaultMailConfig() Mail {
	return Mail{
		ResendKey: "${FITHUB_RESEND_KEY:-}",
		From:      "${FITHUB_MAIL_FROM:-FitHub <noreply@fithub.local>}",
		ReplyTo:   "${FITHUB_MAIL_REPLY_TO:-}",
	}
}

func NewMailConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":           []*yaml.Comment{yaml.HeadComment(" Outgoing email")},
		".resendKey": []*yaml.Comment{yaml.HeadComment(" Resend API key; emails are only logged when empty")},
		".from":      []*yaml.Comment{yaml.HeadComment(" Sender address")},
	}
}
