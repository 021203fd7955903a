package model

import "os"

func Version() string {
	if version := os.Getenv("VERSION"); len(version) != 0 {
		return version
	}

	return "development"
}

func GitSha() string {
	if version := os.Getenv("GIT_SHA"); len(version) != 0 {
		return version
	}

	return "HEAD"
}
