package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

func baseURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8000/api"
}

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
func sendRequest(method, url string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL()+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, generation is slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out, err
}

func mustSucceed(step string, resp *http.Response, err error) {
	if err != nil {
		color.Red("%s failed: %v", step, err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		color.Red("%s failed: %s", step, resp.Status)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
}

func main() {
	color.Cyan("🚀 Starting Lesson API Smoke Test\n")

	// 1. Health
	color.Yellow("\n1. Health")
	resp, body, err := sendRequest("GET", "/health", nil)
	mustSucceed("health", resp, err)

	// 2. Generate
	color.Yellow("\n2. Generate a physics lesson")
	resp, body, err = sendRequest("POST", "/generate-lesson", map[string]interface{}{
		"grade":             "8",
		"main_subject":      "Physics",
		"related_subjects":  []string{"Math", "Art"},
		"estimated_hours":   2,
		"knowledge_goals":   []string{"Newton's third law"},
		"academic_features": "project-based",
	})
	mustSucceed("generate", resp, err)

	data, _ := body["data"].(map[string]interface{})
	sessionID, _ := data["session_id"].(string)
	if sessionID == "" {
		color.Red("No session_id in response")
		prettyPrint(body)
		os.Exit(1)
	}
	fmt.Printf("Session ID: %s\n", sessionID)
	if sections, ok := data["sections"].([]interface{}); ok {
		for _, s := range sections {
			if sec, ok := s.(map[string]interface{}); ok {
				fmt.Printf("  - %s\n", sec["name"])
			}
		}
	}

	// 3. Modify
	color.Yellow("\n3. Modify Assessment")
	resp, body, err = sendRequest("POST", "/modify-lesson/"+sessionID, map[string]interface{}{
		"section_to_modify":         "Assessment",
		"modification_instructions": "Replace the exit ticket with a rubric-scored rocket test",
	})
	mustSucceed("modify", resp, err)
	if data, ok := body["data"].(map[string]interface{}); ok {
		fmt.Printf("Modified: %s\n", data["modified_section"])
	}

	// 4. Media
	color.Yellow("\n4. Recommend media for Procedure")
	resp, body, err = sendRequest("POST", "/recommend-media/"+sessionID, map[string]interface{}{
		"section_name": "Procedure",
		"media_type":   "all",
	})
	if err != nil || resp.StatusCode != http.StatusOK {
		// media keys are optional; report and continue
		color.Red("Media failed: %v", err)
		prettyPrint(body)
	} else {
		color.Green("Status: %s", resp.Status)
		prettyPrint(body["data"])
	}

	// 5. Unknown section
	color.Yellow("\n5. Unknown section returns 404")
	resp, body, err = sendRequest("POST", "/recommend-media/"+sessionID, map[string]interface{}{
		"section_name": "Homework",
	})
	if err == nil && resp.StatusCode == http.StatusNotFound {
		color.Green("Status: %s", resp.Status)
		prettyPrint(body["data"])
	} else {
		color.Red("Expected 404")
	}

	color.Cyan("\n✅ Done")
}
