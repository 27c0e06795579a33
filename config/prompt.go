package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrAborted is returned when input ends before every answer was given.
var ErrAborted = errors.New("config: input ended before the profile was complete")

// Prompter asks questions over a line based terminal.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads answers from r and writes prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w}
}

// String asks label and returns the trimmed answer.
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", errors.Wrap(err, "read answer")
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Int asks label until the answer is a whole number.
func (p *Prompter) Int(label string) (int, error) {
	for {
		answer, err := p.String(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(p.out, "Please enter a number.")
	}
}

// PromptProfile asks for every profile field in file order.
func PromptProfile(p *Prompter) (*Profile, error) {
	var (
		prof Profile
		err  error
	)

	if prof.LeftIndex, err = p.Int("Enter index of left camera: "); err != nil {
		return nil, err
	}
	if prof.RightIndex, err = p.Int("Enter index of right camera: "); err != nil {
		return nil, err
	}
	if prof.SourceDir, err = p.String("Enter full path to image source directory: "); err != nil {
		return nil, err
	}
	if prof.DestDir, err = p.String("Enter full path to image output directory: "); err != nil {
		return nil, err
	}
	if prof.KeyFrame, err = p.String("Enter full path to key frame image: "); err != nil {
		return nil, err
	}
	if prof.Width, err = p.Int("Enter image width: "); err != nil {
		return nil, err
	}
	if prof.Format, err = p.String("Enter image format: "); err != nil {
		return nil, err
	}

	return &prof, nil
}
