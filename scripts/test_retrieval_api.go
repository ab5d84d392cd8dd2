package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const (
	baseURL  = "http://localhost:3000/api"
	testUser = "smoke-test-user"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, retrieval calls can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return map[string]interface{}{"raw": string(body)}
	}
	return result
}

func main() {
	color.Cyan("🚀 Starting Retrieval API Smoke Test\n")

	// 1. Ingest sample documents
	color.Yellow("\n[DOCS] 1. Ingest Sample Documents")
	docs := []map[string]interface{}{
		{
			"content": "The staging environment mirrors production and deploys automatically from the main branch. Access it at staging.internal.example.com with your SSO login.",
			"source":  "smoke/staging.md",
		},
		{
			"content": "On-call rotations switch every Monday at 09:00 UTC. The handover meeting covers open incidents, silenced alerts and scheduled maintenance windows.",
			"source":  "smoke/on-call.md",
		},
	}
	for _, doc := range docs {
		resp, body, err := sendRequest("POST", "/document/v1", doc)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(decode(body))
	}

	// Give the indexing worker a moment to embed the new rows
	fmt.Println("\nWaiting for indexing...")
	time.Sleep(3 * time.Second)

	// 2. Direct semantic search
	color.Yellow("\n[DOCS] 2. Direct Semantic Search")
	resp, body, err := sendRequest("GET", "/document/v1/search?q=when+does+the+on-call+rotation+change&limit=3", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. First retrieval turn (no session context yet)
	color.Yellow("\n[RETRIEVAL] 3. Query Without Context")
	resp, body, err = sendRequest("POST", "/retrieval/v1/query", map[string]interface{}{
		"query":   "how do I reach the staging environment?",
		"user_id": testUser,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	result := decode(body)
	prettyPrint(result)

	if data, ok := result["data"].(map[string]interface{}); ok {
		if used, ok := data["context_used"].(bool); ok && used {
			color.Red("Expected context_used=false on the first turn")
		}
	}

	// 4. Follow-up turn, session memory should now inform the classifier
	color.Yellow("\n[RETRIEVAL] 4. Follow-Up Query With Context")
	resp, body, err = sendRequest("POST", "/retrieval/v1/query", map[string]interface{}{
		"query":   "and who is on call for it this week?",
		"user_id": testUser,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Conversation history
	color.Yellow("\n[SESSION] 5. Conversation History")
	resp, body, err = sendRequest("GET", "/retrieval/v1/session/"+testUser, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. Audit trail (written asynchronously by the NATS consumer)
	color.Yellow("\n[AUDIT] 6. Retrieval Logs")
	resp, body, err = sendRequest("GET", "/retrieval/v1/logs/"+testUser+"?limit=5", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. Clear the session
	color.Yellow("\n[SESSION] 7. Clear Session")
	resp, body, err = sendRequest("DELETE", "/retrieval/v1/session/"+testUser, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✨ Smoke test finished")
}
