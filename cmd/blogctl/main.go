// blogctl is the command-line client for the blog API. Auth state lives in a
// session file restored on every invocation; the posts commands refuse to
// run without it, though the server itself does not enforce that.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"blogpost/pkg/client"
)

var (
	apiURL      string
	sessionPath string
)

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "blogctl", "session.json")
}

// newAPIClient restores the saved session, if any, and returns a client
// carrying its token.
func newAPIClient() (*client.Client, *client.Session, error) {
	sess, err := client.LoadSession(sessionPath)
	if err != nil {
		return nil, nil, err
	}
	token := ""
	if sess != nil {
		token = sess.Token
	}
	return client.New(apiURL, token), sess, nil
}

// requireSession is the client-side gate on post management: it fails when
// no session is saved.
func requireSession() (*client.Client, *client.Session, error) {
	c, sess, err := newAPIClient()
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, fmt.Errorf("not logged in, run 'blogctl login' first")
	}
	return c, sess, nil
}

func newSignupCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := c.Signup(name, email, password); err != nil {
				return err
			}
			fmt.Println("Account created, run 'blogctl login' to sign in")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newAPIClient()
			if err != nil {
				return err
			}
			sess, err := c.Login(email, password)
			if err != nil {
				return err
			}
			if err := sess.Save(sessionPath); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s <%s>\n", sess.User.Name, sess.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Purely local: the server has no revocation, the token just
			// ages out.
			if err := client.ClearSession(sessionPath); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, verified against the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := requireSession()
			if err != nil {
				return err
			}
			profile, err := c.Me()
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", profile.Name, profile.Email)
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Manage blog posts from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "base URL of the blog API")
	root.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "path of the saved session file")

	root.AddCommand(
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newPostsCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
