package types

import (
	"log/slog"
	"strconv"
)

type (
	RepoID              int64
	WorkflowIndex       int
	BranchName          string
	CommitSHA           string
	GitHubAppID         int64
	GitHubAppInstallID  int64
	GitHubAppPrivateKey string
	GitHubToken         string
	CoverallsToken      string
)

func (x RepoID) String() string {
	return strconv.FormatInt(int64(x), 10)
}

func (x BranchName) String() string { return string(x) }

func (x GitHubAppPrivateKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppPrivateKey) String() string {
	return "***********"
}

func (x GitHubToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubToken) String() string {
	return "***********"
}

func (x CoverallsToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x CoverallsToken) String() string {
	return "***********"
}
