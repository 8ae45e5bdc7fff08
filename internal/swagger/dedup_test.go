package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionParam(value string) Object {
	return Object{
		"name":        "action",
		"in":          "query",
		"description": "action=" + value,
		"required":    true,
		"type":        "string",
		"enum":        []string{value},
	}
}

func TestRemoveQueryParams(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		paths Paths
		want  Paths
	}{
		{
			name: "absolute duplicate stays unchanged",
			paths: Paths{
				"mock/path1?action=mock_action": {"post": {"parameters": []any{}}},
				"mock/path1":                    {"post": {}},
			},
			want: Paths{
				"mock/path1?action=mock_action": {"post": {"parameters": []any{}}},
				"mock/path1":                    {"post": {}},
			},
		},
		{
			name: "query variant merges into bare path",
			paths: Paths{
				"mock/path1?action=mock_action": {"post": {"parameters": []any{}}},
				"mock/path1":                    {"get": {"parameters": []any{}}},
			},
			want: Paths{
				"mock/path1": {
					"post": {"parameters": []any{actionParam("mock_action")}},
					"get":  {"parameters": []any{}},
				},
			},
		},
		{
			name: "two query variants with different methods merge",
			paths: Paths{
				"mock/path1?action=mock_action_1": {"post": {"parameters": []any{}}},
				"mock/path1?action=mock_action_2": {"get": {"parameters": []any{}}},
			},
			want: Paths{
				"mock/path1": {
					"post": {"parameters": []any{actionParam("mock_action_1")}},
					"get":  {"parameters": []any{actionParam("mock_action_2")}},
				},
			},
		},
		{
			name: "two query variants with the same method keep the later literal",
			paths: Paths{
				"mock/path1?action=mock_action_1": {"post": {"parameters": []any{}}},
				"mock/path1?action=mock_action_2": {"post": {"parameters": []any{}}},
			},
			want: Paths{
				"mock/path1":                      {"post": {"parameters": []any{actionParam("mock_action_1")}}},
				"mock/path1?action=mock_action_2": {"post": {"parameters": []any{}}},
			},
		},
		{
			name: "existing parameters are kept",
			paths: Paths{
				"/com/vmware/vcenter/vm/{vm}/power?action=start": {"post": {"parameters": []any{Object{"name": "vm", "in": "path"}}}},
			},
			want: Paths{
				"/com/vmware/vcenter/vm/{vm}/power": {"post": {"parameters": []any{
					Object{"name": "vm", "in": "path"},
					actionParam("start"),
				}}},
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.NoError(t, RemoveQueryParams(tc.paths))
			assert.Equal(t, tc.want, tc.paths)
		})
	}
}

func TestRemoveQueryParams_MultiplePairs(t *testing.T) {
	t.Parallel()
	paths := Paths{"/x?a=1&b=2": {"get": {"parameters": []any{}}}}
	require.NoError(t, RemoveQueryParams(paths))
	params := paths["/x"]["get"]["parameters"].([]any)
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].(Object)["name"])
	assert.Equal(t, []string{"2"}, params[1].(Object)["enum"])
}

func TestRemoveQueryParams_NoSharedParameterObjects(t *testing.T) {
	t.Parallel()
	paths := Paths{"/x?action=run": {
		"get":  {"parameters": []any{}},
		"post": {"parameters": []any{}},
	}}
	require.NoError(t, RemoveQueryParams(paths))
	getParam := paths["/x"]["get"]["parameters"].([]any)[0].(Object)
	getParam["description"] = "changed"
	postParam := paths["/x"]["post"]["parameters"].([]any)[0].(Object)
	assert.Equal(t, "action=run", postParam["description"])
}

func TestRemoveQueryParams_MalformedOperation(t *testing.T) {
	t.Parallel()
	paths := Paths{"/x?action=run": {"post": {}}}
	err := RemoveQueryParams(paths)
	assert.ErrorIs(t, err, ErrMalformedOperation)
}
