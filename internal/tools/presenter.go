package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/affanstats/Product-Presenter/internal/catalog"
	"github.com/affanstats/Product-Presenter/internal/domain"
	"github.com/affanstats/Product-Presenter/internal/interaction"
	"github.com/affanstats/Product-Presenter/internal/journal"
	"github.com/affanstats/Product-Presenter/internal/mailer"
)

// Deps are the session-scoped collaborators the presenter tools mutate.
// The interaction log is this session's own record; the waitlist journal
// and mailer are shared process-wide.
type Deps struct {
	Log      *interaction.Log
	Waitlist *journal.Journal
	Mailer   *mailer.Mailer
	Catalog  *catalog.Client

	// OnProductResolved is invoked when lookup_product_info switches the
	// session to a different product. Optional.
	OnProductResolved func(product *domain.ProductRecord)
}

// NewPresenterRegistry builds the closed tool set for one presenter session.
func NewPresenterRegistry(deps Deps) (*Registry, error) {
	if deps.Log == nil {
		return nil, fmt.Errorf("presenter tools require an interaction log")
	}

	r := NewRegistry()
	all := []Tool{
		logUserSentiment(deps),
		logConversionInterest(deps),
		logKeyQuestions(deps),
		addToProductWaitlist(deps),
		sendMail(deps),
		lookupProductInfo(deps),
	}
	for _, t := range all {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func logUserSentiment(deps Deps) Tool {
	return Tool{
		Name:        "log_user_sentiment",
		Description: "Log the sentiment of the user interactions. Use this tool when the user expresses strong emotion or opinion.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sentiment": map[string]any{
					"type":        "string",
					"description": "The sentiment of the user",
					"enum":        []string{"positive", "negative", "neutral"},
				},
			},
			"required": []string{"sentiment"},
		},
		Handler: func(_ context.Context, args map[string]any) string {
			sentiment := stringArg(args, "sentiment")
			deps.Log.SetSentiment(sentiment)
			return fmt.Sprintf("Sentiment set to %s", sentiment)
		},
	}
}

func logConversionInterest(deps Deps) Tool {
	return Tool{
		Name:        "log_conversion_interest",
		Description: "Log that the user has shown interest in converting (e.g., buying, signing up, asking for pricing).",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(_ context.Context, _ map[string]any) string {
			deps.Log.TriggerConversion()
			return "Conversion interest logged."
		},
	}
}

func logKeyQuestions(deps Deps) Tool {
	return Tool{
		Name:        "log_key_questions",
		Description: "Log key questions asked by the user that indicate their interests or concerns. Use this tool to record significant questions about features, pricing, or compatibility.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The question the user asked",
				},
			},
			"required": []string{"question"},
		},
		Handler: func(_ context.Context, args map[string]any) string {
			deps.Log.AddQuestion(stringArg(args, "question"))
			return "Question logged."
		},
	}
}

func addToProductWaitlist(deps Deps) Tool {
	return Tool{
		Name:        "add_to_product_waitlist",
		Description: "Add a user's email to the waitlist for a specific product.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"email": map[string]any{
					"type":        "string",
					"description": "The email address of the user",
				},
				"product_id": map[string]any{
					"type":        "string",
					"description": "The ID of the product",
				},
			},
			"required": []string{"email", "product_id"},
		},
		Handler: func(ctx context.Context, args map[string]any) string {
			email := stringArg(args, "email")
			productID := stringArg(args, "product_id")

			if deps.Waitlist == nil {
				return "Failed to add to waitlist. Error: waitlist storage is not configured."
			}
			entry := domain.WaitlistEntry{Email: email, ProductID: productID}
			if err := deps.Waitlist.AppendSync(ctx, entry); err != nil {
				slog.Error("Failed to add to waitlist", "error", err, "product_id", productID)
				return fmt.Sprintf("Failed to add to waitlist. Error: %v", err)
			}
			return fmt.Sprintf("Successfully added %s to the waitlist for product %s.", email, productID)
		},
	}
}

func sendMail(deps Deps) Tool {
	return Tool{
		Name:        "send_mail",
		Description: "Send an email to a user with product details or summary.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipient": map[string]any{
					"type":        "string",
					"description": "The email address of the recipient",
				},
				"subject": map[string]any{
					"type":        "string",
					"description": "The subject line of the email",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "The content of the email",
				},
			},
			"required": []string{"recipient", "subject", "body"},
		},
		Handler: func(_ context.Context, args map[string]any) string {
			recipient := stringArg(args, "recipient")

			if deps.Mailer == nil {
				return "Failed to send email. Error: mail relay is not configured."
			}
			if err := deps.Mailer.Send(recipient, stringArg(args, "subject"), stringArg(args, "body")); err != nil {
				slog.Error("Failed to send email", "error", err, "recipient", recipient)
				return fmt.Sprintf("Failed to send email. Error: %v", err)
			}
			return "Email sent successfully."
		},
	}
}

func lookupProductInfo(deps Deps) Tool {
	return Tool{
		Name:        "lookup_product_info",
		Description: "Look up product information for a given product id. Use this when the user asks about a different product or you need to switch contexts.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_id": map[string]any{
					"type":        "string",
					"description": "The ID of the product to look up",
				},
			},
			"required": []string{"product_id"},
		},
		Handler: func(ctx context.Context, args map[string]any) string {
			productID := stringArg(args, "product_id")

			if deps.Catalog == nil {
				return "Product lookup is not available."
			}
			product, err := deps.Catalog.Get(ctx, productID)
			if err != nil {
				if errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, catalog.ErrDataNotFound) {
					return fmt.Sprintf("No product found for id %s.", productID)
				}
				slog.Error("Failed to look up product", "error", err, "product_id", productID)
				return fmt.Sprintf("Failed to look up product %s. Error: %v", productID, err)
			}

			deps.Log.UpdateProductInfo(product.ProductID, product.ProductName)
			if deps.OnProductResolved != nil {
				deps.OnProductResolved(product)
			}
			return fmt.Sprintf("Now presenting %s: %s Price: %v %s.",
				product.ProductName, product.Description, product.Price, product.Currency)
		},
	}
}
