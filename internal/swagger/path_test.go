package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func headerAuthnParam() Object {
	return Object{
		"in":          "header",
		"required":    true,
		"type":        "string",
		"name":        "vmware-use-header-authn",
		"description": "Custom header to protect against CSRF attacks in browser based clients",
	}
}

func TestTagsFromServiceName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{""}, TagsFromServiceName("three.levels.deep", ""))
	assert.Equal(t, []string{""}, TagsFromServiceName("three.levels.deep", "_"))
	assert.Equal(t, []string{"levels_deep"}, TagsFromServiceName("more.than.three.levels.deep", "_"))
	assert.Equal(t, []string{"session"}, TagsFromServiceName("com.vmware.cis.session", "/"))
	assert.Equal(t, []string{"vm/hardware/cdrom"}, TagsFromServiceName("com.vmware.vcenter.vm.hardware.cdrom", "/"))
}

func TestPostProcessPath(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		op   Object
		want Object
	}{
		{
			name: "session create gets header parameter",
			op:   Object{"path": "/com/vmware/cis/session", "method": "post", "operationId": "create"},
			want: Object{"path": "/com/vmware/cis/session", "method": "post", "operationId": "create", "parameters": []any{headerAuthnParam()}},
		},
		{
			name: "other path untouched",
			op:   Object{"path": "mock/path", "method": "post", "operationId": "mock"},
			want: Object{"path": "mock/path", "method": "post", "operationId": "mock"},
		},
		{
			name: "other method untouched",
			op:   Object{"path": "/com/vmware/cis/session", "method": "get", "operationId": "get"},
			want: Object{"path": "/com/vmware/cis/session", "method": "get", "operationId": "get"},
		},
		{
			name: "task operation gets vmw-task flag",
			op:   Object{"path": "mock/path", "method": "get", "operationId": "mock$task"},
			want: Object{"path": "mock/path?vmw-task=true", "method": "get", "operationId": "mock$task"},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			PostProcessPath(tc.op)
			assert.Equal(t, tc.want, tc.op)
		})
	}
}

func TestBuildPath(t *testing.T) {
	t.Parallel()

	t.Run("generic operation", func(t *testing.T) {
		t.Parallel()
		got := BuildPath(Route{
			ServiceName: "com.vmware.mock_package.mock_tag",
			Method:      "get",
			Path:        "/com/vmware/mock_package/mock_tag",
			Summary:     "mock documentation",
			Parameters:  []any{Object{"mock params": "params 1"}},
			OperationID: "mock id",
			Responses:   "mock responses",
			Consumes:    "mock consumes",
			Produces:    "mock produces",
		}, "_")
		want := Object{
			"tags":        []string{"mock_tag"},
			"method":      "get",
			"path":        "/com/vmware/mock_package/mock_tag",
			"summary":     "mock documentation",
			"responses":   "mock responses",
			"consumes":    "mock consumes",
			"produces":    "mock produces",
			"operationId": "mock id",
			"parameters":  []any{Object{"mock params": "params 1"}},
		}
		assert.Equal(t, want, got)
	})

	t.Run("session create", func(t *testing.T) {
		t.Parallel()
		got := BuildPath(Route{
			ServiceName: "com.vmware.cis.session",
			Method:      "post",
			Path:        "/com/vmware/cis/session",
			Summary:     "mock documentation",
			OperationID: "mock id",
			Responses:   "mock responses",
			Consumes:    "mock consumes",
			Produces:    "mock produces",
		}, "/")
		want := Object{
			"tags":        []string{"session"},
			"method":      "post",
			"path":        "/com/vmware/cis/session",
			"summary":     "mock documentation",
			"responses":   "mock responses",
			"consumes":    "mock consumes",
			"produces":    "mock produces",
			"operationId": "mock id",
			"security":    []any{Object{"basic_auth": []string{}}},
			"parameters":  []any{headerAuthnParam()},
		}
		assert.Equal(t, want, got)
	})

	t.Run("session get has no fixups", func(t *testing.T) {
		t.Parallel()
		got := BuildPath(Route{
			ServiceName: "com.vmware.cis.session",
			Method:      "get",
			Path:        "/com/vmware/cis/session",
			Parameters:  []any{Object{"mock params": "params 1"}},
			OperationID: "mock id",
		}, "/")
		assert.NotContains(t, got, "security")
		assert.Equal(t, []any{Object{"mock params": "params 1"}}, got["parameters"])
	})

	t.Run("nil parameters default to empty", func(t *testing.T) {
		t.Parallel()
		got := BuildPath(Route{ServiceName: "com.vmware.vcenter.vm", Method: "get", Path: "/com/vmware/vcenter/vm", OperationID: "list"}, "/")
		assert.Equal(t, []any{}, got["parameters"])
	})

	t.Run("task operation", func(t *testing.T) {
		t.Parallel()
		got := BuildPath(Route{ServiceName: "com.vmware.vcenter.vcha.cluster", Method: "post", Path: "/com/vmware/vcenter/vcha/cluster", OperationID: "failover$task"}, "/")
		assert.Equal(t, "/com/vmware/vcenter/vcha/cluster?vmw-task=true", got["path"])
	})
}

func TestResponseObjectName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "tag", ResponseObjectName("tag", "get"))
	assert.Equal(t, "tag.post", ResponseObjectName("tag", "post"))
}
