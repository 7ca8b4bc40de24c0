package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/ronitchordiya/Flint-and-Flour/models"
)

const emailShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: 'Georgia', serif; color: #3a3a3a; line-height: 1.6; margin: 0; padding: 0; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: #8b5a3c; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
.header h1 { color: white; margin: 0; font-size: 28px; }
.content { background: #fffef9; padding: 40px; border-radius: 0 0 10px 10px; }
.button { display: inline-block; background: #8b5a3c; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin: 20px 0; }
.order-table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
.order-table th { background: #f5f1eb; padding: 15px; text-align: left; }
.order-table td { padding: 10px; border-bottom: 1px solid #f5f1eb; }
.total { background: #8b5a3c; color: white; font-weight: bold; }
.footer { text-align: center; margin-top: 30px; color: #7a7a7a; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>%s</h1></div>
<div class="content">
%s
</div>
<div class="footer"><p>&copy; 2024 Flint &amp; Flours - Where tradition meets artistry</p></div>
</div>
</body>
</html>`

func verificationHTML(link string) string {
	body := fmt.Sprintf(`<h2>Welcome to our artisan bakery family!</h2>
<p>Thank you for joining Flint &amp; Flours. To complete your registration and start exploring our handcrafted breads, pastries, and treats, please verify your email address.</p>
<p style="text-align: center;"><a href="%s" class="button">Verify My Email</a></p>
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #8b5a3c;">%s</p>
<p>This verification link will expire in 24 hours for security purposes.</p>
<p>If you didn't create an account with us, please ignore this email.</p>
<p>Happy baking!<br>The Flint &amp; Flours Team</p>`, link, link)

	return fmt.Sprintf(emailShell, "🥖 Flint &amp; Flours", body)
}

func passwordResetHTML(link string) string {
	body := fmt.Sprintf(`<h2>Reset Your Password</h2>
<p>We received a request to reset the password for your Flint &amp; Flours account.</p>
<p style="text-align: center;"><a href="%s" class="button">Reset My Password</a></p>
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #8b5a3c;">%s</p>
<p><strong>Important:</strong> This password reset link will expire in 1 hour for security purposes.</p>
<p>If you didn't request a password reset, please ignore this email. Your password will remain unchanged.</p>
<p>Stay secure!<br>The Flint &amp; Flours Team</p>`, link, link)

	return fmt.Sprintf(emailShell, "🥖 Flint &amp; Flours", body)
}

func orderConfirmationHTML(order *models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, `<tr><td>%s</td><td style="text-align: center;">%d</td><td style="text-align: right;">%s %.2f</td></tr>`,
			html.EscapeString(item.Name), item.Quantity, order.Currency, item.TotalPrice)
		rows.WriteString("\n")
	}

	body := fmt.Sprintf(`<h2>Thank you for your order!</h2>
<p>We're delighted to confirm your order and will begin preparing your artisan baked goods with care.</p>
<h3>Order Details</h3>
<p><strong>Order ID:</strong> #%s</p>
<p><strong>Order Date:</strong> %s</p>
<p><strong>Region:</strong> %s</p>
<table class="order-table">
<thead><tr><th>Item</th><th style="text-align: center;">Quantity</th><th style="text-align: right;">Price</th></tr></thead>
<tbody>
%s<tr class="total"><td colspan="2"><strong>Total</strong></td><td style="text-align: right;"><strong>%s %.2f</strong></td></tr>
</tbody>
</table>
<h3>Delivery Information</h3>
<p>Expected delivery: %s</p>
<p>Thank you for choosing Flint &amp; Flours. We can't wait for you to enjoy our handcrafted creations!</p>
<p>Freshly yours,<br>The Flint &amp; Flours Team</p>`,
		order.ID,
		order.CreatedAt.Format("January 2, 2006"),
		order.Region,
		rows.String(),
		order.Currency, order.Total,
		expectedDelivery(order),
	)

	return fmt.Sprintf(emailShell, "🥖 Flint &amp; Flours", body)
}

func shippingUpdateHTML(order *models.Order) string {
	body := fmt.Sprintf(`<h2>Great news! Your order is on its way</h2>
<p>Your Flint &amp; Flours order #%s has been shipped and is heading to your doorstep.</p>
<p style="text-align: center;"><a href="%s" class="button">Track Your Order</a></p>
<p><strong>Expected Delivery:</strong> %s</p>
<p>We've carefully packaged your artisan baked goods to ensure they arrive fresh and delicious.</p>
<p>Thank you for your order!<br>The Flint &amp; Flours Team</p>`,
		order.ID,
		order.TrackingLink,
		expectedDelivery(order),
	)

	return fmt.Sprintf(emailShell, "🚚 Your Order is Shipped!", body)
}

func expectedDelivery(order *models.Order) string {
	if order.DeliveryDate != nil {
		return order.DeliveryDate.Format("Monday, January 2, 2006")
	}
	return "2-3 business days"
}
