package household

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"dinner-planner/internal/config"
	"dinner-planner/internal/pantry"
	"dinner-planner/internal/recipe"

	"github.com/golang-jwt/jwt/v5"
)

// recipesResponse is the top-level structure of the household API response
// for the recipe catalog.
type recipesResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
}

// pantryResponse is the top-level structure of the household API response
// for the pantry snapshot.
type pantryResponse struct {
	Pantry []pantry.Entry `json:"pantry"`
}

// Client is an interface for the household service holding the recipe
// catalog and the user's pantry.
type Client interface {
	FetchRecipes(ctx context.Context) ([]recipe.Recipe, error)
	FetchPantry(ctx context.Context, userID string) ([]pantry.Entry, error)
}

// householdClient is the concrete implementation of the household client.
type householdClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a new household API client.
func NewClient(cfg *config.Config) Client {
	return &householdClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		config:     cfg,
	}
}

// FetchRecipes fetches the recipe catalog. Recipes are normalized on the
// way in and structurally invalid ones are dropped here so they never reach
// the planning core.
func (c *householdClient) FetchRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	var resp recipesResponse
	if err := c.get(ctx, "/api/v1/recipes", &resp); err != nil {
		return nil, err
	}

	recipes := make([]recipe.Recipe, 0, len(resp.Recipes))
	for _, rec := range resp.Recipes {
		rec.Normalize()
		if err := rec.Validate(); err != nil {
			log.Printf("Warning: skipping invalid recipe: %v", err)
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// FetchPantry fetches the current pantry snapshot for a user.
func (c *householdClient) FetchPantry(ctx context.Context, userID string) ([]pantry.Entry, error) {
	var resp pantryResponse
	if err := c.get(ctx, "/api/v1/pantry?user="+userID, &resp); err != nil {
		return nil, err
	}
	return resp.Pantry, nil
}

func (c *householdClient) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.createAdminToken()
	if err != nil {
		return fmt.Errorf("failed to create admin token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.config.HouseholdURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("household api error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// createAdminToken generates a short-lived JWT for the household API.
func (c *householdClient) createAdminToken() (string, error) {
	keyParts := strings.Split(c.config.HouseholdAdminKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	id := keyParts[0]
	secretHex := keyParts[1]

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/v1/household/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
