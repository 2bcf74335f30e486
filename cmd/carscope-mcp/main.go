package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// evaluateRequest mirrors the Carscope API request model.
type evaluateRequest struct {
	Yad2URL  string   `json:"yad2Url,omitempty"`
	CarData  *carData `json:"carData,omitempty"`
	Language string   `json:"language,omitempty"`
}

type carData struct {
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Mileage    int    `json:"mileage"`
	Price      int    `json:"price"`
	Ownership  int    `json:"ownership,omitempty"`
	Gearbox    string `json:"gearbox,omitempty"`
	EngineType string `json:"engineType,omitempty"`
}

// evaluateResponse mirrors the Carscope API response model.
type evaluateResponse struct {
	Success bool `json:"success"`
	CarData *struct {
		Title      string `json:"title"`
		Year       int    `json:"year"`
		Mileage    int    `json:"mileage"`
		Price      int    `json:"price"`
		Ownership  int    `json:"ownership"`
		Gearbox    string `json:"gearbox"`
		EngineType string `json:"engineType"`
	} `json:"carData"`
	Evaluation     string `json:"evaluation"`
	Recommendation string `json:"recommendation"`
	Score          int    `json:"score"`
	Error          *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("CARSCOPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("CARSCOPE_API_KEY")

	s := server.NewMCPServer(
		"carscope",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	evaluateListingTool := mcp.NewTool("evaluate_listing",
		mcp.WithDescription("Evaluate a used-car listing from a Yad2 URL. Scrapes the listing with a headless browser, scores the vehicle 0-100, and returns a natural-language verdict with a recommendation."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The Yad2 listing URL to evaluate"),
		),
		mcp.WithString("language",
			mcp.Description("Response language: 'en' (default) or 'he'"),
			mcp.Enum("en", "he"),
		),
	)
	s.AddTool(evaluateListingTool, handleEvaluateListing(apiURL, apiKey))

	evaluateCarTool := mcp.NewTool("evaluate_car",
		mcp.WithDescription("Evaluate a used car from manually entered attributes. Scores the vehicle 0-100 and returns a natural-language verdict with a recommendation."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Make, model, and year, e.g. 'Toyota Corolla 2020'"),
		),
		mcp.WithNumber("year",
			mcp.Required(),
			mcp.Description("Model year"),
		),
		mcp.WithNumber("mileage",
			mcp.Required(),
			mcp.Description("Mileage in kilometres"),
		),
		mcp.WithNumber("price",
			mcp.Required(),
			mcp.Description("Asking price in shekels"),
		),
		mcp.WithNumber("ownership",
			mcp.Description("Number of previous owners (default: 1)"),
		),
		mcp.WithString("gearbox",
			mcp.Description("Gearbox type, e.g. 'automatic' or 'manual'"),
		),
		mcp.WithString("engine_type",
			mcp.Description("Engine type, e.g. 'gasoline', 'diesel', 'hybrid', 'electric'"),
		),
		mcp.WithString("language",
			mcp.Description("Response language: 'en' (default) or 'he'"),
			mcp.Enum("en", "he"),
		),
	)
	s.AddTool(evaluateCarTool, handleEvaluateCar(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// callEvaluate posts to the evaluate endpoint and formats the verdict.
func callEvaluate(ctx context.Context, client *http.Client, apiURL, apiKey string, payload evaluateRequest) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/evaluate", bytes.NewReader(body))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
	}

	var evalResp evaluateResponse
	if err := json.Unmarshal(respBody, &evalResp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
	}

	if !evalResp.Success {
		errMsg := "evaluation failed"
		if evalResp.Error != nil {
			errMsg = fmt.Sprintf("[%s] %s", evalResp.Error.Code, evalResp.Error.Message)
		}
		return mcp.NewToolResultError(errMsg), nil
	}

	var result string
	if d := evalResp.CarData; d != nil {
		result = fmt.Sprintf("Vehicle: %s\nYear: %d | Mileage: %d km | Price: %d | Owners: %d\n\n",
			d.Title, d.Year, d.Mileage, d.Price, d.Ownership)
	}
	result += fmt.Sprintf("Score: %d/100\nRecommendation: %s\n\n%s",
		evalResp.Score, evalResp.Recommendation, evalResp.Evaluation)

	return mcp.NewToolResultText(result), nil
}

func handleEvaluateListing(apiURL, apiKey string) server.ToolHandlerFunc {
	// Headless scrape plus a model round trip; allow generous time.
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := evaluateRequest{
			Yad2URL:  url,
			Language: request.GetString("language", ""),
		}
		return callEvaluate(ctx, client, apiURL, apiKey, payload)
	}
}

func handleEvaluateCar(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError("title is required"), nil
		}
		year, err := request.RequireInt("year")
		if err != nil {
			return mcp.NewToolResultError("year is required"), nil
		}
		mileage, err := request.RequireInt("mileage")
		if err != nil {
			return mcp.NewToolResultError("mileage is required"), nil
		}
		price, err := request.RequireInt("price")
		if err != nil {
			return mcp.NewToolResultError("price is required"), nil
		}

		payload := evaluateRequest{
			CarData: &carData{
				Title:      title,
				Year:       year,
				Mileage:    mileage,
				Price:      price,
				Ownership:  request.GetInt("ownership", 0),
				Gearbox:    request.GetString("gearbox", ""),
				EngineType: request.GetString("engine_type", ""),
			},
			Language: request.GetString("language", ""),
		}
		return callEvaluate(ctx, client, apiURL, apiKey, payload)
	}
}
