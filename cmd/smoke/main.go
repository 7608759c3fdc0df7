// Command smoke walks a running API through register, chat, save and logout.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func (c *client) send(method, path string, body interface{}) (map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: undecodable body: %w", resp.Status, err)
	}
	if resp.StatusCode >= 300 {
		return out, fmt.Errorf("%s: %v", resp.Status, out["detail"])
	}
	return out, nil
}

func step(title string, fn func() (map[string]interface{}, error)) map[string]interface{} {
	color.Yellow("\n%s", title)
	out, err := fn()
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("OK")
	prettyPrint(out)
	return out
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "API base URL")
	apiKey := flag.String("api-key", "", "optional per-request LLM key")
	skipChat := flag.Bool("skip-chat", false, "skip the /chat call")
	flag.Parse()

	c := &client{baseURL: *baseURL, http: &http.Client{Timeout: 90 * time.Second}}
	color.Cyan("🚀 Smoke testing %s", *baseURL)

	step("1. Health", func() (map[string]interface{}, error) {
		return c.send(http.MethodGet, "/health", nil)
	})

	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])
	reg := step("2. Register "+email, func() (map[string]interface{}, error) {
		return c.send(http.MethodPost, "/register", map[string]string{
			"name":     "Smoke Test",
			"email":    email,
			"password": "smoke-password",
		})
	})
	c.token, _ = reg["access_token"].(string)
	userID, _ := reg["user_id"].(string)

	messages := []map[string]string{
		{"role": "assistant", "content": "Hi! What do you do for work?"},
		{"role": "user", "content": "I am a delivery rider in Pune."},
	}

	if !*skipChat {
		step("3. Chat", func() (map[string]interface{}, error) {
			return c.send(http.MethodPost, "/chat", map[string]interface{}{
				"user_id":  userID,
				"messages": messages,
				"api_key":  *apiKey,
			})
		})
	}

	saved := step("4. Save session", func() (map[string]interface{}, error) {
		return c.send(http.MethodPost, "/save-session", map[string]interface{}{
			"user_id":          userID,
			"messages":         messages,
			"generate_summary": false,
		})
	})

	step("5. Active session", func() (map[string]interface{}, error) {
		return c.send(http.MethodGet, "/active-session/"+userID, nil)
	})

	step("6. Logout (finalize)", func() (map[string]interface{}, error) {
		return c.send(http.MethodPost, "/save-session", map[string]interface{}{
			"user_id":  userID,
			"messages": messages,
		})
	})

	step("7. Session detail", func() (map[string]interface{}, error) {
		return c.send(http.MethodGet, fmt.Sprintf("/session/%v", saved["session_id"]), nil)
	})

	step("8. Session list", func() (map[string]interface{}, error) {
		return c.send(http.MethodGet, "/sessions/"+userID, nil)
	})

	color.Cyan("\n✅ Smoke test passed")
}
