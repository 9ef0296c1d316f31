package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var cut bool

	cmd := &cobra.Command{
		Use:   "search <file|url>",
		Short: "Search the scene of an image file or URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}

			source := strings.TrimSpace(args[0])
			var image []byte
			if isURL(source) {
				image, err = svc.FetchImage(cmd.Context(), source)
			} else {
				image, err = readImageFile(source)
			}
			if err != nil {
				return userError("搜索失败", err)
			}

			segments, err := svc.SearchImage(cmd.Context(), image, cut)
			if err != nil {
				return userError("搜索失败", err)
			}

			printSegments(cmd.OutOrStdout(), segments)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cut, "cut", false, "Crop letterbox borders before searching")

	return cmd
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func readImageFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspect file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > domain.MaxImageSize {
		return nil, domain.ErrPayloadTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func printSegments(w io.Writer, segments []domain.Segment) {
	for _, s := range segments {
		switch s.Kind {
		case domain.SegmentText:
			fmt.Fprintln(w, s.Text)
		default:
			fmt.Fprintf(w, "[%s] %s\n", s.Kind, s.URL)
		}
	}
}
