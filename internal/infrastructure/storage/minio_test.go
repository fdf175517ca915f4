package storage

import "testing"

func TestObjectURL(t *testing.T) {
	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{Endpoint: "localhost:9000"}, "http://localhost:9000/images/products/a.png"},
		{Config{Endpoint: "s3.example.com", UseSSL: true}, "https://s3.example.com/images/products/a.png"},
		{Config{Endpoint: "minio:9000", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com/images/products/a.png"},
	}
	for _, tc := range cases {
		if got := objectURL(publicBase(tc.cfg), "images", "/products/a.png"); got != tc.want {
			t.Errorf("got %s, want %s", got, tc.want)
		}
	}
}
