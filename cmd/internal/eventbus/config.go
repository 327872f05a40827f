package eventbus

import (
	"os"
	"strings"
)

// BrokersFromEnv 는 KAFKA_BOOTSTRAP_SERVERS 를 읽는다. 비어있으면 ErrNoBrokers.
func BrokersFromEnv() (string, error) {
	v := strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS"))
	if v == "" {
		return "", ErrNoBrokers
	}
	return v, nil
}

// GroupIDFromEnv 는 KAFKA_GROUP_ID 를 읽고, 비어있으면 fallback 을 쓴다.
func GroupIDFromEnv(fallback string) string {
	if v := strings.TrimSpace(os.Getenv("KAFKA_GROUP_ID")); v != "" {
		return v
	}
	return fallback
}
