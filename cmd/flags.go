package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

// Update commands send only what the user typed. A flag left alone stays
// absent from the PATCH body, --clear-<name> sends an explicit null.

func optString(cmd *cobra.Command, name string) apiclient.Optional[string] {
	if cleared(cmd, name) {
		return apiclient.Null[string]()
	}
	if !cmd.Flags().Changed(name) {
		return apiclient.Optional[string]{}
	}
	v, _ := cmd.Flags().GetString(name)
	return apiclient.Set(v)
}

func optInt(cmd *cobra.Command, name string) apiclient.Optional[int] {
	if cleared(cmd, name) {
		return apiclient.Null[int]()
	}
	if !cmd.Flags().Changed(name) {
		return apiclient.Optional[int]{}
	}
	v, _ := cmd.Flags().GetInt(name)
	return apiclient.Set(v)
}

func optFloat(cmd *cobra.Command, name string) apiclient.Optional[float64] {
	if cleared(cmd, name) {
		return apiclient.Null[float64]()
	}
	if !cmd.Flags().Changed(name) {
		return apiclient.Optional[float64]{}
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return apiclient.Set(v)
}

func optBool(cmd *cobra.Command, name string) apiclient.Optional[bool] {
	if !cmd.Flags().Changed(name) {
		return apiclient.Optional[bool]{}
	}
	v, _ := cmd.Flags().GetBool(name)
	return apiclient.Set(v)
}

func optTimestamp(cmd *cobra.Command, name string) (apiclient.Optional[apiclient.Timestamp], error) {
	if cleared(cmd, name) {
		return apiclient.Null[apiclient.Timestamp](), nil
	}
	if !cmd.Flags().Changed(name) {
		return apiclient.Optional[apiclient.Timestamp]{}, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	ts, err := apiclient.ParseTimestamp(raw)
	if err != nil {
		return apiclient.Optional[apiclient.Timestamp]{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return apiclient.Set(ts), nil
}

// optEnum is optString for string-typed vocabularies.
func optEnum[T ~string](cmd *cobra.Command, name string) apiclient.Optional[T] {
	if !cmd.Flags().Changed(name) {
		return apiclient.Optional[T]{}
	}
	v, _ := cmd.Flags().GetString(name)
	return apiclient.Set(T(v))
}

// timestampFlag parses an optional create-time timestamp.
func timestampFlag(cmd *cobra.Command, name string) (*apiclient.Timestamp, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	ts, err := apiclient.ParseTimestamp(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &ts, nil
}

func addClearFlag(cmd *cobra.Command, name string) {
	cmd.Flags().Bool("clear-"+name, false, fmt.Sprintf("Set %s to null", name))
	cmd.MarkFlagsMutuallyExclusive(name, "clear-"+name)
}

func cleared(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool("clear-" + name)
	return v
}
