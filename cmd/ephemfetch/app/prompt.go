package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompt writes question and returns the next trimmed input line
func prompt(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptEmail(in *bufio.Reader, out io.Writer) (string, error) {
	email, err := prompt(in, out, "Please enter your email address: ")
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", errors.New("an email address is required for anonymous login")
	}
	return email, nil
}

func promptWeeks(in *bufio.Reader, out io.Writer) ([]string, error) {
	line, err := prompt(in, out, "Enter the GNSS weeks to download (separated by spaces): ")
	if err != nil {
		return nil, err
	}
	weeks := strings.Fields(line)
	if len(weeks) == 0 {
		return nil, errors.New("no weeks given")
	}
	return weeks, nil
}
