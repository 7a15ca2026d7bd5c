package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/deCybercop/wp-calypso/internal/assets"
	"github.com/deCybercop/wp-calypso/internal/blocks"
	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:     "post",
	Short:   "Manage the local posts templates are inserted into",
	GroupID: "templates",
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post and make it the project default",
	Long: `Create a post. --content reads serialized block content from a file, e.g. a
page with an a8c/post-content container templates are inserted into.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		post := &models.Post{Meta: map[string]any{}}
		post.Title, _ = cmd.Flags().GetString("title")
		if path, _ := cmd.Flags().GetString("content"); path != "" {
			data, err := os.ReadFile(config.ResolvePath(getBaseDir(), path))
			if err != nil {
				output.Error("read content: %v", err)
				return err
			}
			post.Blocks = blocks.Parse(string(data))
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		if err := database.CreatePost(post); err != nil {
			reportError(cmd, err)
			return err
		}
		if noDefault, _ := cmd.Flags().GetBool("no-default"); !noDefault {
			if err := config.SetPostID(getBaseDir(), post.ID); err != nil {
				output.Warning("could not set default post: %v", err)
			}
		}

		if jsonOutput(cmd) {
			return output.JSON(post)
		}
		output.Success("created post %d", post.ID)
		return nil
	},
}

var postListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		posts, err := database.ListPosts()
		if err != nil {
			reportError(cmd, err)
			return err
		}
		if jsonOutput(cmd) {
			if posts == nil {
				posts = []models.Post{}
			}
			return output.JSON(posts)
		}
		for _, p := range posts {
			fmt.Println(output.FormatPostShort(p))
		}
		return nil
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show [post-id]",
	Short: "Show a post's title, metadata, and content",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) == 1 {
			parsed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				output.Error("invalid post id %q", args[0])
				return err
			}
			id = parsed
		} else {
			var err error
			if id, err = postID(cmd); err != nil {
				reportError(cmd, err)
				return err
			}
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		post, err := database.GetPost(id)
		if err != nil {
			reportError(cmd, err)
			return err
		}
		if jsonOutput(cmd) {
			return output.JSON(post)
		}

		fmt.Println(output.FormatPostShort(*post))
		for k, v := range post.Meta {
			fmt.Printf("  %s: %v\n", k, v)
		}
		fmt.Printf("  %d blocks\n", blocks.Count(post.Blocks))
		for _, mediaID := range assets.MediaIDs(post.Blocks) {
			media, err := database.GetMedia(mediaID)
			if err != nil {
				output.Warning("media %s: %v", mediaID, err)
				continue
			}
			fmt.Println("  " + output.FormatMediaShort(*media))
		}
		fmt.Println()

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Println(blocks.Serialize(post.Blocks))
			return nil
		}
		md := output.BlocksMarkdown(post.Blocks)
		rendered, err := output.RenderMarkdown(md)
		if err != nil {
			fmt.Println(md)
			return nil
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	postCreateCmd.Flags().String("title", "", "Post title")
	postCreateCmd.Flags().String("content", "", "File with serialized block content")
	postCreateCmd.Flags().Bool("no-default", false, "Do not make this the project's default post")
	postShowCmd.Flags().Bool("raw", false, "Print serialized block content instead of rendering it")
	postShowCmd.Flags().Int64("post", 0, "Post ID (default: project post)")
	postCmd.AddCommand(postCreateCmd, postListCmd, postShowCmd)
	rootCmd.AddCommand(postCmd)
}
