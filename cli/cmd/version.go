package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/flux/pkg"
)

// Version prints the version of the flux command.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(stdioFrom(ctx).out, pkg.Name, pkg.Version)

	return err
}
