package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/minisector-dominance/log"
	mycache "github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/cmd/util"
)

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "removes all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(cmd.Context(), cmd.OutOrStdout())
		},
	}
	return cmd
}

func clearCache(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := util.SetupLogger(); err != nil {
		return err
	}
	store, err := util.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := mycache.NewFetcher(mycache.WithStore(store)).Clear(ctx)
	if err != nil {
		return err
	}
	log.Debug("cache cleared", log.Int("entries", n))
	fmt.Fprintf(out, "%d cached responses removed\n", n)
	return nil
}
