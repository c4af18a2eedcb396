package config

import "github.com/getsentry/sentry-go"

func (x *Sentry) ClientOptionsForTest() sentry.ClientOptions {
	return x.clientOptions()
}
