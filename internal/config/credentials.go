package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type CredentialsBackend string

const (
	CredentialsBackendMemory CredentialsBackend = "memory"
	CredentialsBackendRedis  CredentialsBackend = "redis"
)

type Credentials struct {
	Backend       InterpolatedString   `yaml:"backend"`
	TTL           InterpolatedDuration `yaml:"ttl"`
	SweepInterval InterpolatedDuration `yaml:"sweepInterval"`
	Redis         Redis                `yaml:"redis"`
}

type Redis struct {
	Address  InterpolatedString `yaml:"address"`
	Password InterpolatedString `yaml:"password"`
	DB       InterpolatedInt    `yaml:"db"`
	Prefix   InterpolatedString `yaml:"prefix"`
}

func NewDefaultCredentialsConfig() Credentials {
	return Credentials{
		Backend:       "${FITHUB_CREDENTIALS_BACKEND:-memory}",
		TTL:           InterpolatedDuration(24 * time.Hour),
		SweepInterval: InterpolatedDuration(5 * time.Minute),
		Redis: Redis{
			Address:  "${FITHUB_REDIS_ADDRESS:-localhost:6379}",
			Password: "${FITHUB_REDIS_PASSWORD:-}",
			DB:       0,
			Prefix:   "fithub:credential:",
		},
	}
}

func NewCredentialsConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":               []*yaml.Comment{yaml.HeadComment(" Login credential registry")},
		".backend":       []*yaml.Comment{yaml.HeadComment(" Registry backend (memory or redis)")},
		".ttl":           []*yaml.Comment{yaml.HeadComment(" Lifetime of an issued credential")},
		".sweepInterval": []*yaml.Comment{yaml.HeadComment(" How often expired credentials are purged (memory backend)")},
		".redis":         []*yaml.Comment{yaml.HeadComment(" Redis connection, used by the redis backend")},
	}
}
