package zenml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// StepLogs fetches the stored logs of a step run as individual lines. The
// remote endpoint has returned a few shapes across server versions (a plain
// string, a string array, an object array); all are flattened to lines here
// so bounding can work at line granularity.
func (c *Client) StepLogs(ctx context.Context, stepRunID string) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/"+ResourceRunSteps+"/"+stepRunID+"/logs", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeLogLines(raw)
}

// DeploymentLogs fetches the most recent log lines of a deployment. The tail
// is requested server-side; callers bound the result again locally.
func (c *Client) DeploymentLogs(ctx context.Context, nameOrID, project string, tail int) ([]string, error) {
	deployment, err := c.GetResource(ctx, ResourceDeployments, nameOrID, projectQuery(project))
	if err != nil {
		return nil, err
	}
	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(deployment, &meta); err != nil || meta.ID == "" {
		return nil, &NotFoundError{Resource: ResourceDeployments, NameOrID: nameOrID}
	}

	q := url.Values{}
	if tail > 0 {
		q.Set("tail", strconv.Itoa(tail))
	}
	raw, err := c.do(ctx, http.MethodGet, "/"+ResourceDeployments+"/"+meta.ID+"/logs", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeLogLines(raw)
}

func projectQuery(project string) url.Values {
	if project == "" {
		return nil
	}
	q := url.Values{}
	q.Set("project", project)
	return q
}

func decodeLogLines(raw json.RawMessage) ([]string, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return nil, nil
		}
		return strings.Split(strings.TrimRight(asString, "\n"), "\n"), nil
	}

	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil {
		return asStrings, nil
	}

	// Structured entries: render one JSON object per line.
	var asObjects []json.RawMessage
	if err := json.Unmarshal(raw, &asObjects); err == nil {
		lines := make([]string, 0, len(asObjects))
		for _, entry := range asObjects {
			lines = append(lines, string(entry))
		}
		return lines, nil
	}

	return []string{string(raw)}, nil
}
