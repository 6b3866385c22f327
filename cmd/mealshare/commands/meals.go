package commands

import (
	"context"
	"os"

	"github.com/deppfellow/mealshare/internal/lib/utils"
	"github.com/deppfellow/mealshare/internal/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.shutdown()

			return a.run(cmd.Context(), "list", func(ctx context.Context) error {
				meals, err := a.services.Meals.ListMeals(ctx)
				if err != nil {
					return err
				}
				return utils.PrintJSON(cmd.OutOrStdout(), meals)
			})
		},
	}
}

func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <slug>",
		Short: "Print the meal with the given slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.shutdown()

			return a.run(cmd.Context(), "get", func(ctx context.Context) error {
				meal, err := a.services.Meals.GetMealBySlug(ctx, args[0])
				if err != nil {
					return err
				}
				if meal == nil {
					return errors.Errorf("no meal with slug %q", args[0])
				}
				return utils.PrintJSON(cmd.OutOrStdout(), meal)
			})
		},
	}
}

func NewSaveCommand() *cobra.Command {
	var (
		sub       model.MealSubmission
		imagePath string
	)

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Store a new meal together with its image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.shutdown()

			if imagePath != "" {
				f, err := os.Open(imagePath)
				if err != nil {
					return errors.Wrap(err, "could not open image")
				}
				defer f.Close()

				sub.Image = &model.ImageUpload{
					Filename: imagePath,
					Content:  f,
				}
			}

			return a.run(cmd.Context(), "save", func(ctx context.Context) error {
				meal, err := a.services.Meals.SaveMeal(ctx, sub)
				if err != nil {
					return err
				}
				return utils.PrintJSON(cmd.OutOrStdout(), meal)
			})
		},
	}

	saveCmd.Flags().StringVar(&sub.Title, "title", "", "title of the meal")
	saveCmd.Flags().StringVar(&sub.Summary, "summary", "", "short summary")
	saveCmd.Flags().StringVar(&sub.Instructions, "instructions", "", "cooking instructions, HTML allowed")
	saveCmd.Flags().StringVar(&sub.Creator, "creator", "", "name of the creator")
	saveCmd.Flags().StringVar(&sub.CreatorEmail, "creator-email", "", "email of the creator")
	saveCmd.Flags().StringVar(&imagePath, "image", "", "path to the meal image")

	return saveCmd
}
