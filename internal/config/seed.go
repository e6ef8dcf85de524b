package config

import "github.com/goccy/go-yaml"

// Seed is an account created at startup when no account with its email exists.
type Seed struct {
	Email     InterpolatedString `yaml:"email"`
	Password  InterpolatedString `yaml:"password"`
	FirstName InterpolatedString `yaml:"firstName"`
	LastName  InterpolatedString `yaml:"lastName"`
	Role      InterpolatedString `yaml:"role"`
}

func NewDefaultSeedConfig() []Seed {
	return []Seed{
		{
			Email:     "${FITHUB_SEED_ADMIN_EMAIL:-admin@fithub.local}",
			Password:  "${FITHUB_SEED_ADMIN_PASSWORD:-admin123}",
			FirstName: "Grace",
			LastName:  "Hopper",
			Role:      "admin",
		},
		{
			Email:     "${FITHUB_SEED_TRAINER_EMAIL:-trainer@fithub.local}",
			Password:  "${FITHUB_SEED_TRAINER_PASSWORD:-trainer123}",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      "trainer",
		},
		{
			Email:     "${FITHUB_SEED_MEMBER_EMAIL:-member@fithub.local}",
			Password:  "${FITHUB_SEED_MEMBER_PASSWORD:-member123}",
			FirstName: "Alan",
			LastName:  "Turing",
			Role:      "member",
		},
	}
}

func NewSeedConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"": []*yaml.Comment{yaml.HeadComment(" Accounts created on startup when absent")},
	}
}
