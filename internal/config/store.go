package config

import (
	"time"

	"github.com/goccy/go-yaml"
)

type Store struct {
	DSN       InterpolatedString   `yaml:"dsn"`
	SlowQuery InterpolatedDuration `yaml:"slowQuery"`
}

func NewDefaultStoreConfig() Store {
	return Store{
		DSN:       "${FITHUB_STORE_DSN:-fithub.db}",
		SlowQuery: InterpolatedDuration(50 * time.Millisecond),
	}
}

func NewStoreConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":           []*yaml.Comment{yaml.HeadComment(" Account storage configuration")},
		".dsn":       []*yaml.Comment{yaml.HeadComment(" SQLite database path (':memory:' for a throwaway store)")},
		".slowQuery": []*yaml.Comment{yaml.HeadComment(" Queries slower than this are logged as warnings")},
	}
}
