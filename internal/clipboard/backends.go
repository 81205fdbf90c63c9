package clipboard

import (
	"context"
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"
)

// darwinBackend shells out to pbpaste and pbcopy.
type darwinBackend struct {
	run commandRunner
}

func (b *darwinBackend) Name() string { return "pbpaste/pbcopy" }

func (b *darwinBackend) ReadText(ctx context.Context) (string, error) {
	out, err := b.run.Output(ctx, "pbpaste")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *darwinBackend) WriteText(ctx context.Context, text string) error {
	return b.run.RunWithInput(ctx, text, "pbcopy")
}

// windowsBackend uses the native clipboard API. clip.exe does not take UTF-8
// input reliably, so it is not used for writes.
type windowsBackend struct {
	readAll  func() (string, error)
	writeAll func(string) error
}

func newWindowsBackend() *windowsBackend {
	return &windowsBackend{readAll: atotto.ReadAll, writeAll: atotto.WriteAll}
}

func (b *windowsBackend) Name() string { return "win32" }

func (b *windowsBackend) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.readAll()
}

func (b *windowsBackend) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.writeAll(text)
}

// utility is one clipboard tool with its read and write argv.
type utility struct {
	read  []string
	write []string
}

var (
	wlClipboard = utility{
		read:  []string{"wl-paste", "--no-newline"},
		write: []string{"wl-copy"},
	}
	xclip = utility{
		read:  []string{"xclip", "-selection", "clipboard", "-o"},
		write: []string{"xclip", "-selection", "clipboard", "-i"},
	}
	xsel = utility{
		read:  []string{"xsel", "--clipboard", "--output"},
		write: []string{"xsel", "--clipboard", "--input"},
	}
)

// linuxBackend tries each utility in order until one succeeds. xsel is the
// fallback for hosts without xclip.
type linuxBackend struct {
	run       commandRunner
	utilities []utility
}

func newLinuxBackend(run commandRunner, getenv func(string) string) *linuxBackend {
	var utils []utility
	if getenv("WAYLAND_DISPLAY") != "" {
		utils = append(utils, wlClipboard)
	}
	utils = append(utils, xclip, xsel)
	return &linuxBackend{run: run, utilities: utils}
}

func (b *linuxBackend) Name() string { return "x11/wayland" }

func (b *linuxBackend) ReadText(ctx context.Context) (string, error) {
	var errs []error
	for _, u := range b.utilities {
		path, err := b.run.LookPath(u.read[0])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.read[0], err))
			continue
		}
		out, err := b.run.Output(ctx, path, u.read[1:]...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return string(out), nil
	}
	return "", noUtility(errs)
}

func (b *linuxBackend) WriteText(ctx context.Context, text string) error {
	var errs []error
	for _, u := range b.utilities {
		path, err := b.run.LookPath(u.write[0])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.write[0], err))
			continue
		}
		if err := b.run.RunWithInput(ctx, text, path, u.write[1:]...); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return noUtility(errs)
}

func noUtility(errs []error) error {
	return fmt.Errorf("no clipboard utility succeeded (install xclip or xsel): %w", errors.Join(errs...))
}
