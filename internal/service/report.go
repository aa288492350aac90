package service

import (
	"context"
	"errors"

	"github.com/septivank/device-fingerprint-api/tools/fingerprint"
)

// ScreenReport holds screen geometry as reported by the browser.
type ScreenReport struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

// AttributeReport is the attribute payload a browser sends to the API.
// A nil field means the browser could not supply the attribute.
type AttributeReport struct {
	UserAgent  *string       `json:"user_agent"`
	Platform   *string       `json:"platform"`
	Languages  []string      `json:"languages"`
	Screen     *ScreenReport `json:"screen"`
	ColorDepth *int          `json:"color_depth"`
}

var errNotReported = errors.New("not reported")

// ReportedEnvironment serves a fingerprint.Environment from an AttributeReport.
type ReportedEnvironment struct {
	report AttributeReport
}

var _ fingerprint.Environment = ReportedEnvironment{}

// NewReportedEnvironment wraps report. When the report carries no user agent,
// fallbackUserAgent is used instead, if set.
func NewReportedEnvironment(report AttributeReport, fallbackUserAgent string) ReportedEnvironment {
	if report.UserAgent == nil && fallbackUserAgent != "" {
		report.UserAgent = &fallbackUserAgent
	}
	return ReportedEnvironment{report: report}
}

func (e ReportedEnvironment) UserAgent(context.Context) (string, error) {
	if e.report.UserAgent == nil {
		return "", errNotReported
	}
	return *e.report.UserAgent, nil
}

func (e ReportedEnvironment) Platform(context.Context) (string, error) {
	if e.report.Platform == nil {
		return "", errNotReported
	}
	return *e.report.Platform, nil
}

func (e ReportedEnvironment) Languages(context.Context) ([]string, error) {
	if e.report.Languages == nil {
		return nil, errNotReported
	}
	return e.report.Languages, nil
}

func (e ReportedEnvironment) ScreenWidth(context.Context) (int, error) {
	if e.report.Screen == nil {
		return 0, fingerprint.EnvironmentUnavailable(fingerprint.MsgNoScreen)
	}
	if e.report.Screen.Width == nil {
		return 0, errNotReported
	}
	return *e.report.Screen.Width, nil
}

func (e ReportedEnvironment) ScreenHeight(context.Context) (int, error) {
	if e.report.Screen == nil {
		return 0, fingerprint.EnvironmentUnavailable(fingerprint.MsgNoScreen)
	}
	if e.report.Screen.Height == nil {
		return 0, errNotReported
	}
	return *e.report.Screen.Height, nil
}

func (e ReportedEnvironment) ColorDepth(context.Context) (int, error) {
	if e.report.ColorDepth == nil {
		return 0, errNotReported
	}
	return *e.report.ColorDepth, nil
}
