package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List tracked applications",
	RunE:  runSubjects,
}

var subjectsReclassifyCmd = &cobra.Command{
	Use:   "reclassify <id> <category>",
	Short: "Change the category of a tracked application",
	Long: `Change the category of a tracked application.

Categories: unknown, development, browser, communication, productivity,
entertainment.

Example:
  focusd subjects reclassify 3 development`,
	Args: cobra.ExactArgs(2),
	RunE: runSubjectsReclassify,
}

func init() {
	rootCmd.AddCommand(subjectsCmd)
	subjectsCmd.AddCommand(subjectsReclassifyCmd)
}

var categories = map[string]domain.Category{
	string(domain.CategoryUnknown):       domain.CategoryUnknown,
	string(domain.CategoryDevelopment):   domain.CategoryDevelopment,
	string(domain.CategoryBrowser):       domain.CategoryBrowser,
	string(domain.CategoryCommunication): domain.CategoryCommunication,
	string(domain.CategoryProductivity):  domain.CategoryProductivity,
	string(domain.CategoryEntertainment): domain.CategoryEntertainment,
}

func runSubjects(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	subjects, err := app.Repos.Subjects.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}

	if len(subjects) == 0 {
		fmt.Println("No subjects tracked yet")
		return nil
	}

	for _, s := range subjects {
		fmt.Printf("%4d  %-40s %-24s %s\n", s.ID, s.BundleID, s.DisplayName, s.Category)
	}
	return nil
}

func runSubjectsReclassify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		return fmt.Errorf("invalid subject id %q", args[0])
	}
	category, ok := categories[args[1]]
	if !ok {
		return fmt.Errorf("unknown category %q", args[1])
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Repos.Subjects.Reclassify(ctx, id, category); err != nil {
		return fmt.Errorf("failed to reclassify: %w", err)
	}

	fmt.Printf("Subject %d is now %s\n", id, category)
	return nil
}
