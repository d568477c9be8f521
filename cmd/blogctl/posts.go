package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blogpost/internal/models"
)

func printPost(post *models.Post) {
	fmt.Printf("id:          %s\n", post.ID)
	fmt.Printf("title:       %s\n", post.Title)
	fmt.Printf("description: %s\n", post.Description)
	if post.Image != nil {
		fmt.Printf("image:       %s\n", *post.Image)
	} else {
		fmt.Printf("image:       (none)\n")
	}
}

func newPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage blog posts (requires login)",
	}
	cmd.AddCommand(
		newPostsListCmd(),
		newPostsGetCmd(),
		newPostsCreateCmd(),
		newPostsEditCmd(),
		newPostsDeleteCmd(),
	)
	return cmd
}

func newPostsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := requireSession()
			if err != nil {
				return err
			}
			posts, err := c.ListPosts()
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				fmt.Println("No posts yet")
				return nil
			}
			for _, post := range posts {
				fmt.Printf("%s  %s\n", post.ID, post.Title)
			}
			return nil
		},
	}
}

func newPostsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := requireSession()
			if err != nil {
				return err
			}
			post, err := c.GetPost(args[0])
			if err != nil {
				return err
			}
			printPost(post)
			return nil
		},
	}
}

func newPostsCreateCmd() *cobra.Command {
	var title, description, image string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := requireSession()
			if err != nil {
				return err
			}
			post, err := c.CreatePost(title, description, image)
			if err != nil {
				return err
			}
			printPost(post)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&description, "description", "", "post description")
	cmd.Flags().StringVar(&image, "image", "", "path of an image file to upload")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("description")
	return cmd
}

func newPostsEditCmd() *cobra.Command {
	var title, description, image string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Overwrite a post's title and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := requireSession()
			if err != nil {
				return err
			}
			// Title and description always overwrite; the image is replaced
			// only when --image is given.
			post, err := c.UpdatePost(args[0], title, description, image)
			if err != nil {
				return err
			}
			printPost(post)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&description, "description", "", "post description")
	cmd.Flags().StringVar(&image, "image", "", "path of a replacement image file")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("description")
	return cmd
}

func newPostsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post and its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := requireSession()
			if err != nil {
				return err
			}
			if err := c.DeletePost(args[0]); err != nil {
				return err
			}
			fmt.Println("Blog post deleted")
			return nil
		},
	}
}
