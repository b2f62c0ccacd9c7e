// accesskey prints the bcrypt hash of a screen access key, for use as
// VOLUNTEER_ACCESS_KEY_HASH or ADMIN_ACCESS_KEY_HASH.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var key string
	var cost int

	flagSet := pflag.NewFlagSet("accesskey", pflag.ContinueOnError)
	flagSet.StringVar(&key, "key", "", "access key to hash (read from stdin when empty)")
	flagSet.IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if key == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read key from stdin: %w", err)
		}
		key = strings.TrimRight(line, "\r\n")
	}
	if key == "" {
		return errors.New("access key is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return fmt.Errorf("hash key: %w", err)
	}
	fmt.Println(string(hash))
	return nil
}
