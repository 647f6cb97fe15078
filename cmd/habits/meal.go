// ABOUTME: CLI commands for meals: list, add, update, delete and totals.
// ABOUTME: Update merges only the flags that were given.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/spf13/cobra"
)

var (
	mealTime     string
	mealCalories float64
	mealProtein  float64
	mealCarbs    float64
	mealFat      float64
	mealImage    string
	mealName     string
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"meals", "m"},
	Short:   "Log meals and nutrition",
	Long: `Log meals with calories and macros.

EXAMPLES:

  habits meal list
  habits meal add Snack --calories 180 --protein 6 --time "03:00 pm"
  habits meal update 2 --calories 560
  habits meal totals`,
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		meals := dash.Meals.Meals()
		if len(meals) == 0 {
			fmt.Println("No meals logged.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range meals {
			fmt.Printf("%s %s %s %5s kcal  %s\n",
				faint.Sprint(shortID(m.ID)),
				faint.Sprint(padRight(m.Time, 8)),
				padRight(m.Name, 12),
				formatValue(m.Calories),
				faint.Sprintf("P %sg  C %sg  F %sg", formatValue(m.Protein), formatValue(m.Carbs), formatValue(m.Fat)))
		}
		return nil
	},
}

var mealAddCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Log a meal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range []float64{mealCalories, mealProtein, mealCarbs, mealFat} {
			if !isAmount(v) || v < 0 {
				return fmt.Errorf("nutrition values must be non-negative numbers")
			}
		}

		m := dash.Meals.AddMeal(models.MealSpec{
			Name:     args[0],
			Time:     mealTime,
			Calories: mealCalories,
			Protein:  mealProtein,
			Carbs:    mealCarbs,
			Fat:      mealFat,
			Image:    mealImage,
		})

		color.Green("✓ Added %s", m.Name)
		fmt.Printf("  %s %s kcal\n", color.New(color.Faint).Sprint(shortID(m.ID)), formatValue(m.Calories))
		return nil
	},
}

var mealUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := dash.Meals.ResolveID(args[0])
		if err != nil {
			return fmt.Errorf("meal %w", err)
		}

		patch := mealPatchFromFlags(cmd)
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update: pass at least one of --name, --time, --calories, --protein, --carbs, --fat, --image")
		}
		for _, v := range []*float64{patch.Calories, patch.Protein, patch.Carbs, patch.Fat} {
			if v != nil && (!isAmount(*v) || *v < 0) {
				return fmt.Errorf("nutrition values must be non-negative numbers")
			}
		}

		dash.Meals.UpdateMeal(id, patch)
		m, _ := dash.Meals.Get(id)
		color.Green("✓ Updated %s", m.Name)
		return nil
	},
}

// mealPatchFromFlags builds a patch from the flags set on cmd.
func mealPatchFromFlags(cmd *cobra.Command) models.MealPatch {
	var p models.MealPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = &mealName
	}
	if flags.Changed("time") {
		p.Time = &mealTime
	}
	if flags.Changed("calories") {
		p.Calories = &mealCalories
	}
	if flags.Changed("protein") {
		p.Protein = &mealProtein
	}
	if flags.Changed("carbs") {
		p.Carbs = &mealCarbs
	}
	if flags.Changed("fat") {
		p.Fat = &mealFat
	}
	if flags.Changed("image") {
		p.Image = &mealImage
	}
	return p
}

var mealDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a meal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := dash.Meals.ResolveID(args[0])
		if err != nil {
			return fmt.Errorf("meal %w", err)
		}
		m, _ := dash.Meals.Get(id)
		dash.Meals.DeleteMeal(id)

		color.Yellow("✗ Deleted %s", m.Name)
		return nil
	},
}

var mealTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show total calories and macros",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := dash.Meals.Totals()
		target := cfg.Profile.TargetCalories

		fmt.Printf("Calories  %s / %s kcal\n", formatValue(t.Calories), formatValue(target))
		fmt.Printf("Protein   %sg\n", formatValue(t.Protein))
		fmt.Printf("Carbs     %sg\n", formatValue(t.Carbs))
		fmt.Printf("Fat       %sg\n", formatValue(t.Fat))
		return nil
	},
}

func addNutritionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mealTime, "time", "", "display time (e.g. 07:00 am)")
	cmd.Flags().Float64Var(&mealCalories, "calories", 0, "calories in kcal")
	cmd.Flags().Float64Var(&mealProtein, "protein", 0, "protein in grams")
	cmd.Flags().Float64Var(&mealCarbs, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().Float64Var(&mealFat, "fat", 0, "fat in grams")
	cmd.Flags().StringVar(&mealImage, "image", "", "image URL")
}

func init() {
	addNutritionFlags(mealAddCmd)
	addNutritionFlags(mealUpdateCmd)
	mealUpdateCmd.Flags().StringVar(&mealName, "name", "", "new name")

	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealUpdateCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	mealCmd.AddCommand(mealTotalsCmd)
	rootCmd.AddCommand(mealCmd)
}
